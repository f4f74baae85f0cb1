package rbac

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

type CreateRoleDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateRoleDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	return nil
}

type CreateResourceDTO struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ResourceType string `json:"resource_type"`
}

func (d CreateResourceDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	if d.ResourceType == "" {
		return ValidationError{Msg: "resource_type is required"}
	}
	return nil
}

// CreatePermissionDTO names the target resource either by id or by its unique
// name; resource_id wins when both are sent.
type CreatePermissionDTO struct {
	Name         string `json:"name"`
	Action       string `json:"action"`
	ResourceID   string `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	Description  string `json:"description"`
}

func (d CreatePermissionDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	if d.Action == "" {
		return ValidationError{Msg: "action is required"}
	}
	if d.ResourceID == "" && d.ResourceName == "" {
		return ValidationError{Msg: "resource_id or resource_name is required"}
	}
	return nil
}

type AssignRoleDTO struct {
	UserID string `json:"user_id"`
	RoleID string `json:"role_id"`
}

func (d AssignRoleDTO) Validate() error {
	if d.UserID == "" {
		return ValidationError{Msg: "user_id is required"}
	}
	if d.RoleID == "" {
		return ValidationError{Msg: "role_id is required"}
	}
	return nil
}

// GrantPermissionDTO creates a direct override. IsGranted defaults to true;
// sending false records an explicit deny that wins over any role grant.
type GrantPermissionDTO struct {
	UserID       string `json:"user_id"`
	PermissionID string `json:"permission_id"`
	IsGranted    *bool  `json:"is_granted"`
}

func (d GrantPermissionDTO) Validate() error {
	if d.UserID == "" {
		return ValidationError{Msg: "user_id is required"}
	}
	if d.PermissionID == "" {
		return ValidationError{Msg: "permission_id is required"}
	}
	return nil
}
