package rbac

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/access-management/internal"
	rbacDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/rbac"
)

func TestRBAC(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "RBAC Module Suite")
}

// mockRBACRepository keeps everything in maps keyed by generated ids.
type mockRBACRepository struct {
	roles           map[string]*rbacDatamodel.Role
	resources       map[string]*rbacDatamodel.Resource
	permissions     map[string]*rbacDatamodel.Permission
	userRoles       []*rbacDatamodel.UserRole
	rolePermissions []*rbacDatamodel.RolePermission
	userPermissions []*rbacDatamodel.UserPermission
	nextID          int
}

func newMockRBACRepository() *mockRBACRepository {
	return &mockRBACRepository{
		roles:       make(map[string]*rbacDatamodel.Role),
		resources:   make(map[string]*rbacDatamodel.Resource),
		permissions: make(map[string]*rbacDatamodel.Permission),
		nextID:      1,
	}
}

func (m *mockRBACRepository) genID() string {
	m.nextID++
	return "id-" + string(rune('0'+m.nextID))
}

func (m *mockRBACRepository) CreateRole(_ context.Context, role *rbacDatamodel.Role) error {
	role.ID = m.genID()
	m.roles[role.ID] = role
	return nil
}

func (m *mockRBACRepository) ListRoles(_ context.Context) ([]rbacDatamodel.Role, error) {
	out := make([]rbacDatamodel.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRBACRepository) GetRoleByID(_ context.Context, id string) (*rbacDatamodel.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (m *mockRBACRepository) CreateResource(_ context.Context, res *rbacDatamodel.Resource) error {
	res.ID = m.genID()
	m.resources[res.ID] = res
	return nil
}

func (m *mockRBACRepository) ListResources(_ context.Context) ([]rbacDatamodel.Resource, error) {
	out := make([]rbacDatamodel.Resource, 0, len(m.resources))
	for _, r := range m.resources {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRBACRepository) GetResourceByID(_ context.Context, id string) (*rbacDatamodel.Resource, error) {
	if r, ok := m.resources[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (m *mockRBACRepository) GetResourceByName(_ context.Context, name string) (*rbacDatamodel.Resource, error) {
	for _, r := range m.resources {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRBACRepository) CreatePermission(_ context.Context, perm *rbacDatamodel.Permission) error {
	perm.ID = m.genID()
	m.permissions[perm.ID] = perm
	return nil
}

func (m *mockRBACRepository) ListPermissions(_ context.Context) ([]rbacDatamodel.Permission, error) {
	out := make([]rbacDatamodel.Permission, 0, len(m.permissions))
	for _, p := range m.permissions {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockRBACRepository) GetPermissionByID(_ context.Context, id string) (*rbacDatamodel.Permission, error) {
	if p, ok := m.permissions[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (m *mockRBACRepository) CreateUserRole(_ context.Context, ur *rbacDatamodel.UserRole) error {
	ur.ID = m.genID()
	m.userRoles = append(m.userRoles, ur)
	return nil
}

func (m *mockRBACRepository) ListUserRoles(_ context.Context, userID string) ([]rbacDatamodel.UserRole, error) {
	var out []rbacDatamodel.UserRole
	for _, ur := range m.userRoles {
		if ur.UserID == userID {
			out = append(out, *ur)
		}
	}
	return out, nil
}

func (m *mockRBACRepository) CreateRolePermission(_ context.Context, rp *rbacDatamodel.RolePermission) error {
	rp.ID = m.genID()
	m.rolePermissions = append(m.rolePermissions, rp)
	return nil
}

func (m *mockRBACRepository) UpsertUserPermission(_ context.Context, up *rbacDatamodel.UserPermission) error {
	for _, existing := range m.userPermissions {
		if existing.UserID == up.UserID && existing.PermissionID == up.PermissionID {
			existing.IsGranted = up.IsGranted
			up.ID = existing.ID
			return nil
		}
	}
	up.ID = m.genID()
	m.userPermissions = append(m.userPermissions, up)
	return nil
}

func (m *mockRBACRepository) ListUserPermissions(_ context.Context, userID string) ([]rbacDatamodel.UserPermission, error) {
	var out []rbacDatamodel.UserPermission
	for _, up := range m.userPermissions {
		if up.UserID == userID {
			out = append(out, *up)
		}
	}
	return out, nil
}

var _ = ginkgo.Describe("RBACService", func() {
	var (
		service *Service
		repo    *mockRBACRepository
		ctx     = context.Background()
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRBACRepository()
		service = NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ginkgo.Describe("CreateRole", func() {
		ginkgo.It("should create a role", func() {
			role, err := service.CreateRole(ctx, CreateRoleDTO{Name: "admin", Description: "System administrator"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(role.ID).ToNot(gomega.BeEmpty())
			gomega.Expect(role.Name).To(gomega.Equal("admin"))
		})

		ginkgo.It("should reject a missing name", func() {
			_, err := service.CreateRole(ctx, CreateRoleDTO{})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("name is required"))
		})
	})

	ginkgo.Describe("GetRole", func() {
		ginkgo.It("should map a missing role to the shared not found error", func() {
			_, err := service.GetRole(ctx, "missing")

			gomega.Expect(err).To(gomega.Equal(internal.ErrNotFound))
		})
	})

	ginkgo.Describe("CreatePermission", func() {
		var resourceID string

		ginkgo.BeforeEach(func() {
			res, err := service.CreateResource(ctx, CreateResourceDTO{Name: "products", ResourceType: "business"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			resourceID = res.ID
		})

		ginkgo.It("should create a permission for a known action and resource", func() {
			perm, err := service.CreatePermission(ctx, CreatePermissionDTO{
				Name:       "read_products",
				Action:     "read",
				ResourceID: resourceID,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perm.Action).To(gomega.Equal("read"))
			gomega.Expect(perm.ResourceID).To(gomega.Equal(resourceID))
		})

		ginkgo.It("should reject an action outside the closed verb set", func() {
			_, err := service.CreatePermission(ctx, CreatePermissionDTO{
				Name:       "execute_products",
				Action:     "execute",
				ResourceID: resourceID,
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("action must be one of"))
			gomega.Expect(repo.permissions).To(gomega.BeEmpty())
		})

		ginkgo.It("should require the target resource to exist", func() {
			_, err := service.CreatePermission(ctx, CreatePermissionDTO{
				Name:       "read_ghosts",
				Action:     "read",
				ResourceID: "missing",
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(404))
		})

		ginkgo.It("should resolve the resource by name when no id is sent", func() {
			perm, err := service.CreatePermission(ctx, CreatePermissionDTO{
				Name:         "list_products",
				Action:       "list",
				ResourceName: "products",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perm.ResourceID).To(gomega.Equal(resourceID))
		})

		ginkgo.It("should return not found for an unknown resource name", func() {
			_, err := service.CreatePermission(ctx, CreatePermissionDTO{
				Name:         "read_ghosts",
				Action:       "read",
				ResourceName: "ghosts",
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(404))
		})

		ginkgo.It("should require a resource id or name", func() {
			_, err := service.CreatePermission(ctx, CreatePermissionDTO{
				Name:   "read_products",
				Action: "read",
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("resource_id or resource_name is required"))
		})
	})

	ginkgo.Describe("AssignRole", func() {
		ginkgo.It("should require the role to exist", func() {
			_, err := service.AssignRole(ctx, AssignRoleDTO{UserID: "u1", RoleID: "missing"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(404))
		})

		ginkgo.It("should record the assignment", func() {
			role, err := service.CreateRole(ctx, CreateRoleDTO{Name: "viewer"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			ur, err := service.AssignRole(ctx, AssignRoleDTO{UserID: "u1", RoleID: role.ID})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ur.UserID).To(gomega.Equal("u1"))
			gomega.Expect(ur.RoleID).To(gomega.Equal(role.ID))

			assignments, err := service.ListUserRoles(ctx, "u1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(assignments).To(gomega.HaveLen(1))
		})
	})

	ginkgo.Describe("GrantPermission", func() {
		var permissionID string

		ginkgo.BeforeEach(func() {
			res, err := service.CreateResource(ctx, CreateResourceDTO{Name: "orders", ResourceType: "business"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			perm, err := service.CreatePermission(ctx, CreatePermissionDTO{
				Name:       "delete_orders",
				Action:     "delete",
				ResourceID: res.ID,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			permissionID = perm.ID
		})

		ginkgo.It("should default to an allow override", func() {
			up, err := service.GrantPermission(ctx, GrantPermissionDTO{UserID: "u1", PermissionID: permissionID})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(up.IsGranted).To(gomega.BeTrue())
		})

		ginkgo.It("should record an explicit deny", func() {
			deny := false
			up, err := service.GrantPermission(ctx, GrantPermissionDTO{
				UserID:       "u1",
				PermissionID: permissionID,
				IsGranted:    &deny,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(up.IsGranted).To(gomega.BeFalse())
		})

		ginkgo.It("should update the existing override instead of stacking rows", func() {
			_, err := service.GrantPermission(ctx, GrantPermissionDTO{UserID: "u1", PermissionID: permissionID})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			deny := false
			_, err = service.GrantPermission(ctx, GrantPermissionDTO{
				UserID:       "u1",
				PermissionID: permissionID,
				IsGranted:    &deny,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			overrides, err := service.ListUserPermissions(ctx, "u1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(overrides).To(gomega.HaveLen(1))
			gomega.Expect(overrides[0].IsGranted).To(gomega.BeFalse())
		})

		ginkgo.It("should require the permission to exist", func() {
			_, err := service.GrantPermission(ctx, GrantPermissionDTO{UserID: "u1", PermissionID: "missing"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(404))
		})
	})

	ginkgo.Describe("AttachPermission", func() {
		ginkgo.It("should link an existing permission to an existing role", func() {
			role, err := service.CreateRole(ctx, CreateRoleDTO{Name: "editor"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			res, err := service.CreateResource(ctx, CreateResourceDTO{Name: "customers", ResourceType: "business"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			perm, err := service.CreatePermission(ctx, CreatePermissionDTO{
				Name:       "update_customers",
				Action:     "update",
				ResourceID: res.ID,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			err = service.AttachPermission(ctx, role.ID, perm.ID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.rolePermissions).To(gomega.HaveLen(1))
		})

		ginkgo.It("should reject an unknown role", func() {
			err := service.AttachPermission(ctx, "missing", "missing-too")

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(404))
		})
	})
})
