package rbac

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/access-management/internal"
	"github.com/frahmantamala/access-management/internal/authz"
	rbacDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/rbac"
)

type Repository interface {
	CreateRole(ctx context.Context, role *rbacDatamodel.Role) error
	ListRoles(ctx context.Context) ([]rbacDatamodel.Role, error)
	GetRoleByID(ctx context.Context, id string) (*rbacDatamodel.Role, error)

	CreateResource(ctx context.Context, res *rbacDatamodel.Resource) error
	ListResources(ctx context.Context) ([]rbacDatamodel.Resource, error)
	GetResourceByID(ctx context.Context, id string) (*rbacDatamodel.Resource, error)
	GetResourceByName(ctx context.Context, name string) (*rbacDatamodel.Resource, error)

	CreatePermission(ctx context.Context, perm *rbacDatamodel.Permission) error
	ListPermissions(ctx context.Context) ([]rbacDatamodel.Permission, error)
	GetPermissionByID(ctx context.Context, id string) (*rbacDatamodel.Permission, error)

	CreateUserRole(ctx context.Context, ur *rbacDatamodel.UserRole) error
	ListUserRoles(ctx context.Context, userID string) ([]rbacDatamodel.UserRole, error)

	CreateRolePermission(ctx context.Context, rp *rbacDatamodel.RolePermission) error

	UpsertUserPermission(ctx context.Context, up *rbacDatamodel.UserPermission) error
	ListUserPermissions(ctx context.Context, userID string) ([]rbacDatamodel.UserPermission, error)
}

type ServiceAPI interface {
	CreateRole(ctx context.Context, dto CreateRoleDTO) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id string) (*Role, error)

	CreateResource(ctx context.Context, dto CreateResourceDTO) (*Resource, error)
	ListResources(ctx context.Context) ([]Resource, error)

	CreatePermission(ctx context.Context, dto CreatePermissionDTO) (*Permission, error)
	ListPermissions(ctx context.Context) ([]Permission, error)

	AssignRole(ctx context.Context, dto AssignRoleDTO) (*UserRole, error)
	ListUserRoles(ctx context.Context, userID string) ([]UserRole, error)

	AttachPermission(ctx context.Context, roleID, permissionID string) error

	GrantPermission(ctx context.Context, dto GrantPermissionDTO) (*UserPermission, error)
	ListUserPermissions(ctx context.Context, userID string) ([]UserPermission, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateRole(ctx context.Context, dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := &rbacDatamodel.Role{
		Name:        dto.Name,
		Description: dto.Description,
	}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		s.logger.Error("failed to create role", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create role", err)
	}

	s.logger.Info("role created", "role_id", role.ID, "name", role.Name)
	return RoleFromDataModel(role), nil
}

func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.repo.ListRoles(ctx)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, internal.NewInternalError("failed to list roles", err)
	}

	roles := make([]Role, 0, len(rows))
	for i := range rows {
		roles = append(roles, *RoleFromDataModel(&rows[i]))
	}
	return roles, nil
}

func (s *Service) GetRole(ctx context.Context, id string) (*Role, error) {
	row, err := s.repo.GetRoleByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrNotFound
		}
		s.logger.Error("failed to get role", "error", err, "role_id", id)
		return nil, internal.NewInternalError("failed to get role", err)
	}
	return RoleFromDataModel(row), nil
}

func (s *Service) CreateResource(ctx context.Context, dto CreateResourceDTO) (*Resource, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	res := &rbacDatamodel.Resource{
		Name:         dto.Name,
		Description:  dto.Description,
		ResourceType: dto.ResourceType,
	}
	if err := s.repo.CreateResource(ctx, res); err != nil {
		s.logger.Error("failed to create resource", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create resource", err)
	}

	s.logger.Info("resource created", "resource_id", res.ID, "name", res.Name)
	return ResourceFromDataModel(res), nil
}

func (s *Service) ListResources(ctx context.Context) ([]Resource, error) {
	rows, err := s.repo.ListResources(ctx)
	if err != nil {
		s.logger.Error("failed to list resources", "error", err)
		return nil, internal.NewInternalError("failed to list resources", err)
	}

	resources := make([]Resource, 0, len(rows))
	for i := range rows {
		resources = append(resources, *ResourceFromDataModel(&rows[i]))
	}
	return resources, nil
}

// CreatePermission validates the action against the closed verb set and
// requires the target resource to exist before anything is written. The
// resource arrives as an id or as its unique name.
func (s *Service) CreatePermission(ctx context.Context, dto CreatePermissionDTO) (*Permission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	action, err := authz.ParseAction(dto.Action)
	if err != nil {
		return nil, ValidationError{Msg: "action must be one of: create, read, update, delete, list"}
	}

	resourceID, err := s.resolveResourceID(ctx, dto)
	if err != nil {
		return nil, err
	}

	perm := &rbacDatamodel.Permission{
		Name:        dto.Name,
		Action:      string(action),
		ResourceID:  resourceID,
		Description: dto.Description,
	}
	if err := s.repo.CreatePermission(ctx, perm); err != nil {
		s.logger.Error("failed to create permission", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create permission", err)
	}

	s.logger.Info("permission created", "permission_id", perm.ID, "action", perm.Action)
	return PermissionFromDataModel(perm), nil
}

func (s *Service) resolveResourceID(ctx context.Context, dto CreatePermissionDTO) (string, error) {
	if dto.ResourceID != "" {
		if _, err := s.repo.GetResourceByID(ctx, dto.ResourceID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return "", internal.NewNotFoundError("resource not found", internal.ErrCodeNotFound)
			}
			s.logger.Error("failed to look up resource", "error", err, "resource_id", dto.ResourceID)
			return "", internal.NewInternalError("failed to create permission", err)
		}
		return dto.ResourceID, nil
	}

	res, err := s.repo.GetResourceByName(ctx, dto.ResourceName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", internal.NewNotFoundError("resource not found", internal.ErrCodeNotFound)
		}
		s.logger.Error("failed to look up resource", "error", err, "resource_name", dto.ResourceName)
		return "", internal.NewInternalError("failed to create permission", err)
	}
	return res.ID, nil
}

func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.repo.ListPermissions(ctx)
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, internal.NewInternalError("failed to list permissions", err)
	}

	perms := make([]Permission, 0, len(rows))
	for i := range rows {
		perms = append(perms, *PermissionFromDataModel(&rows[i]))
	}
	return perms, nil
}

func (s *Service) AssignRole(ctx context.Context, dto AssignRoleDTO) (*UserRole, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetRoleByID(ctx, dto.RoleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("role not found", internal.ErrCodeNotFound)
		}
		s.logger.Error("failed to look up role", "error", err, "role_id", dto.RoleID)
		return nil, internal.NewInternalError("failed to assign role", err)
	}

	ur := &rbacDatamodel.UserRole{
		UserID: dto.UserID,
		RoleID: dto.RoleID,
	}
	if err := s.repo.CreateUserRole(ctx, ur); err != nil {
		s.logger.Error("failed to assign role", "error", err, "user_id", dto.UserID, "role_id", dto.RoleID)
		return nil, internal.NewInternalError("failed to assign role", err)
	}

	s.logger.Info("role assigned", "user_id", ur.UserID, "role_id", ur.RoleID)
	return UserRoleFromDataModel(ur), nil
}

func (s *Service) ListUserRoles(ctx context.Context, userID string) ([]UserRole, error) {
	rows, err := s.repo.ListUserRoles(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user roles", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list user roles", err)
	}

	assignments := make([]UserRole, 0, len(rows))
	for i := range rows {
		assignments = append(assignments, *UserRoleFromDataModel(&rows[i]))
	}
	return assignments, nil
}

// AttachPermission links a permission to a role so every holder of the role
// inherits it.
func (s *Service) AttachPermission(ctx context.Context, roleID, permissionID string) error {
	if _, err := s.repo.GetRoleByID(ctx, roleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.NewNotFoundError("role not found", internal.ErrCodeNotFound)
		}
		return internal.NewInternalError("failed to attach permission", err)
	}
	if _, err := s.repo.GetPermissionByID(ctx, permissionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.NewNotFoundError("permission not found", internal.ErrCodeNotFound)
		}
		return internal.NewInternalError("failed to attach permission", err)
	}

	rp := &rbacDatamodel.RolePermission{
		RoleID:       roleID,
		PermissionID: permissionID,
	}
	if err := s.repo.CreateRolePermission(ctx, rp); err != nil {
		s.logger.Error("failed to attach permission", "error", err, "role_id", roleID, "permission_id", permissionID)
		return internal.NewInternalError("failed to attach permission", err)
	}

	s.logger.Info("permission attached to role", "role_id", roleID, "permission_id", permissionID)
	return nil
}

// GrantPermission writes a direct override for a user. An override with
// is_granted=false is an explicit deny and beats any role grant at decision
// time. Re-granting the same permission updates the existing override.
func (s *Service) GrantPermission(ctx context.Context, dto GrantPermissionDTO) (*UserPermission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetPermissionByID(ctx, dto.PermissionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("permission not found", internal.ErrCodeNotFound)
		}
		s.logger.Error("failed to look up permission", "error", err, "permission_id", dto.PermissionID)
		return nil, internal.NewInternalError("failed to grant permission", err)
	}

	isGranted := true
	if dto.IsGranted != nil {
		isGranted = *dto.IsGranted
	}

	up := &rbacDatamodel.UserPermission{
		UserID:       dto.UserID,
		PermissionID: dto.PermissionID,
		IsGranted:    isGranted,
	}
	if err := s.repo.UpsertUserPermission(ctx, up); err != nil {
		s.logger.Error("failed to grant permission", "error", err, "user_id", dto.UserID, "permission_id", dto.PermissionID)
		return nil, internal.NewInternalError("failed to grant permission", err)
	}

	s.logger.Info("user permission set",
		"user_id", up.UserID,
		"permission_id", up.PermissionID,
		"is_granted", up.IsGranted)
	return UserPermissionFromDataModel(up), nil
}

func (s *Service) ListUserPermissions(ctx context.Context, userID string) ([]UserPermission, error) {
	rows, err := s.repo.ListUserPermissions(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user permissions", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list user permissions", err)
	}

	overrides := make([]UserPermission, 0, len(rows))
	for i := range rows {
		overrides = append(overrides, *UserPermissionFromDataModel(&rows[i]))
	}
	return overrides, nil
}
