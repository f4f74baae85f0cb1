package postgres

import (
	"context"
	"testing"

	"github.com/frahmantamala/access-management/internal/authz"
	rbacDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/rbac"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAuthzRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuthzRepository Suite")
}

var _ = Describe("AuthzRepository", func() {
	var (
		db   *gorm.DB
		repo *Repository
		ctx  = context.Background()

		alice    *userDatamodel.User
		viewer   *rbacDatamodel.Role
		products *rbacDatamodel.Resource
		readPerm *rbacDatamodel.Permission
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&userDatamodel.User{},
			&rbacDatamodel.Role{},
			&rbacDatamodel.Resource{},
			&rbacDatamodel.Permission{},
			&rbacDatamodel.UserRole{},
			&rbacDatamodel.RolePermission{},
			&rbacDatamodel.UserPermission{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewRepository(db)

		alice = &userDatamodel.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "x", IsActive: true}
		Expect(db.Create(alice).Error).To(Succeed())

		viewer = &rbacDatamodel.Role{Name: "viewer"}
		Expect(db.Create(viewer).Error).To(Succeed())

		products = &rbacDatamodel.Resource{Name: "products", ResourceType: "business"}
		Expect(db.Create(products).Error).To(Succeed())

		readPerm = &rbacDatamodel.Permission{Name: "read_products", Action: "read", ResourceID: products.ID}
		Expect(db.Create(readPerm).Error).To(Succeed())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("FindOverride", func() {
		It("should return nil when no override exists", func() {
			override, err := repo.FindOverride(ctx, alice.ID, authz.ActionRead, "products")
			Expect(err).NotTo(HaveOccurred())
			Expect(override).To(BeNil())
		})

		It("should return the is_granted value of an allow override", func() {
			up := &rbacDatamodel.UserPermission{UserID: alice.ID, PermissionID: readPerm.ID, IsGranted: true}
			Expect(db.Create(up).Error).To(Succeed())

			override, err := repo.FindOverride(ctx, alice.ID, authz.ActionRead, "products")
			Expect(err).NotTo(HaveOccurred())
			Expect(override).NotTo(BeNil())
			Expect(*override).To(BeTrue())
		})

		It("should return false for an explicit deny", func() {
			up := &rbacDatamodel.UserPermission{UserID: alice.ID, PermissionID: readPerm.ID, IsGranted: false}
			Expect(db.Create(up).Error).To(Succeed())

			override, err := repo.FindOverride(ctx, alice.ID, authz.ActionRead, "products")
			Expect(err).NotTo(HaveOccurred())
			Expect(override).NotTo(BeNil())
			Expect(*override).To(BeFalse())
		})

		It("should only match on the permission's own action and resource", func() {
			up := &rbacDatamodel.UserPermission{UserID: alice.ID, PermissionID: readPerm.ID, IsGranted: true}
			Expect(db.Create(up).Error).To(Succeed())

			override, err := repo.FindOverride(ctx, alice.ID, authz.ActionDelete, "products")
			Expect(err).NotTo(HaveOccurred())
			Expect(override).To(BeNil())

			override, err = repo.FindOverride(ctx, alice.ID, authz.ActionRead, "orders")
			Expect(err).NotTo(HaveOccurred())
			Expect(override).To(BeNil())
		})
	})

	Describe("HasRoleGrant", func() {
		It("should report false when the user holds no roles", func() {
			granted, err := repo.HasRoleGrant(ctx, alice.ID, authz.ActionRead, "products")
			Expect(err).NotTo(HaveOccurred())
			Expect(granted).To(BeFalse())
		})

		It("should report true when a held role grants the pair", func() {
			Expect(db.Create(&rbacDatamodel.UserRole{UserID: alice.ID, RoleID: viewer.ID}).Error).To(Succeed())
			Expect(db.Create(&rbacDatamodel.RolePermission{RoleID: viewer.ID, PermissionID: readPerm.ID}).Error).To(Succeed())

			granted, err := repo.HasRoleGrant(ctx, alice.ID, authz.ActionRead, "products")
			Expect(err).NotTo(HaveOccurred())
			Expect(granted).To(BeTrue())
		})

		It("should report false when the role is held but lacks the permission", func() {
			Expect(db.Create(&rbacDatamodel.UserRole{UserID: alice.ID, RoleID: viewer.ID}).Error).To(Succeed())

			granted, err := repo.HasRoleGrant(ctx, alice.ID, authz.ActionRead, "products")
			Expect(err).NotTo(HaveOccurred())
			Expect(granted).To(BeFalse())
		})

		It("should union across multiple roles", func() {
			editor := &rbacDatamodel.Role{Name: "editor"}
			Expect(db.Create(editor).Error).To(Succeed())

			// viewer has nothing, editor carries the grant
			Expect(db.Create(&rbacDatamodel.UserRole{UserID: alice.ID, RoleID: viewer.ID}).Error).To(Succeed())
			Expect(db.Create(&rbacDatamodel.UserRole{UserID: alice.ID, RoleID: editor.ID}).Error).To(Succeed())
			Expect(db.Create(&rbacDatamodel.RolePermission{RoleID: editor.ID, PermissionID: readPerm.ID}).Error).To(Succeed())

			granted, err := repo.HasRoleGrant(ctx, alice.ID, authz.ActionRead, "products")
			Expect(err).NotTo(HaveOccurred())
			Expect(granted).To(BeTrue())
		})
	})

	Describe("together with the engine", func() {
		It("should let a deny override beat a role grant", func() {
			Expect(db.Create(&rbacDatamodel.UserRole{UserID: alice.ID, RoleID: viewer.ID}).Error).To(Succeed())
			Expect(db.Create(&rbacDatamodel.RolePermission{RoleID: viewer.ID, PermissionID: readPerm.ID}).Error).To(Succeed())
			Expect(db.Create(&rbacDatamodel.UserPermission{UserID: alice.ID, PermissionID: readPerm.ID, IsGranted: false}).Error).To(Succeed())

			override, err := repo.FindOverride(ctx, alice.ID, authz.ActionRead, "products")
			Expect(err).NotTo(HaveOccurred())
			Expect(override).NotTo(BeNil())
			Expect(*override).To(BeFalse())

			// the role grant is present but must never be reached
			granted, err := repo.HasRoleGrant(ctx, alice.ID, authz.ActionRead, "products")
			Expect(err).NotTo(HaveOccurred())
			Expect(granted).To(BeTrue())
		})
	})
})
