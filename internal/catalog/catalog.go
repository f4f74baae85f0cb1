// Package catalog serves demo business resources behind permission guards.
// The data is synthetic and derived from the requested ID; the point of these
// endpoints is exercising the authorization path on resources that are not
// part of the access-control model itself.
package catalog

import "fmt"

type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description,omitempty"`
}

type OrderItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

type Order struct {
	ID       int         `json:"id"`
	Customer string      `json:"customer"`
	Total    int         `json:"total"`
	Items    []OrderItem `json:"items,omitempty"`
}

type Customer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func Products() []Product {
	return []Product{
		{ID: 1, Name: "Product 1", Price: 100},
		{ID: 2, Name: "Product 2", Price: 200},
		{ID: 3, Name: "Product 3", Price: 300},
	}
}

func ProductByID(id int) Product {
	return Product{
		ID:          id,
		Name:        fmt.Sprintf("Product %d", id),
		Price:       id * 100,
		Description: fmt.Sprintf("Description of product %d", id),
	}
}

func Orders() []Order {
	return []Order{
		{ID: 1, Customer: "Customer 1", Total: 500},
		{ID: 2, Customer: "Customer 2", Total: 750},
		{ID: 3, Customer: "Customer 3", Total: 1200},
	}
}

func OrderByID(id int) Order {
	return Order{
		ID:       id,
		Customer: fmt.Sprintf("Customer %d", id),
		Total:    id * 250,
		Items: []OrderItem{
			{Product: "Product 1", Quantity: 2, Price: 100},
			{Product: "Product 2", Quantity: 1, Price: 200},
		},
	}
}

func Customers() []Customer {
	return []Customer{
		{ID: 1, Name: "Ivan Ivanov", Email: "ivan@example.com"},
		{ID: 2, Name: "Petr Petrov", Email: "petr@example.com"},
		{ID: 3, Name: "Anna Sidorova", Email: "anna@example.com"},
	}
}

func CustomerByID(id int) Customer {
	return Customer{
		ID:    id,
		Name:  fmt.Sprintf("Customer %d", id),
		Email: fmt.Sprintf("customer%d@example.com", id),
	}
}
