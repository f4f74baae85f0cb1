package main

import "github.com/frahmantamala/access-management/cmd"

func main() {
	cmd.Execute()
}
