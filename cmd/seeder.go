package cmd

import (
	"fmt"
	"log"

	rbacDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/rbac"
	userDatamodel "github.com/frahmantamala/access-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// seedActions is every verb permissions are minted for, per resource.
var seedActions = []string{"create", "read", "update", "delete", "list"}

type seedResource struct {
	Name         string
	Description  string
	ResourceType string
}

var seedResources = []seedResource{
	{"users", "System users", "user_management"},
	{"roles", "User roles", "role_management"},
	{"permissions", "Permissions", "permission_management"},
	{"resources", "Protected resources", "permission_management"},
	{"user_roles", "Role assignments", "role_management"},
	{"user_permissions", "Direct permission grants", "permission_management"},
	{"products", "Products", "business"},
	{"orders", "Orders", "business"},
	{"customers", "Customers", "business"},
}

var businessResources = map[string]bool{
	"products":  true,
	"orders":    true,
	"customers": true,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed roles, resources, permissions and demo accounts for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if err := runSeed(db, cfg.Security.BCryptCost); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	},
}

func runSeed(db *gorm.DB, bcryptCost int) error {
	var existingRoles int64
	if err := db.Model(&rbacDatamodel.Role{}).Count(&existingRoles).Error; err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if existingRoles > 0 {
		fmt.Println("seed data already present, nothing to do")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		roles := map[string]*rbacDatamodel.Role{
			"admin":   {Name: "admin", Description: "System administrator"},
			"manager": {Name: "manager", Description: "Manager"},
			"user":    {Name: "user", Description: "Regular user"},
		}
		for _, role := range roles {
			if err := tx.Create(role).Error; err != nil {
				return fmt.Errorf("create role %s: %w", role.Name, err)
			}
		}

		// Every resource gets the full verb set as permissions.
		permsByResource := make(map[string][]*rbacDatamodel.Permission)
		for _, sr := range seedResources {
			res := &rbacDatamodel.Resource{
				Name:         sr.Name,
				Description:  sr.Description,
				ResourceType: sr.ResourceType,
			}
			if err := tx.Create(res).Error; err != nil {
				return fmt.Errorf("create resource %s: %w", sr.Name, err)
			}

			for _, action := range seedActions {
				perm := &rbacDatamodel.Permission{
					Name:        fmt.Sprintf("%s_%s", action, sr.Name),
					Action:      action,
					ResourceID:  res.ID,
					Description: fmt.Sprintf("Permission to %s %s", action, sr.Name),
				}
				if err := tx.Create(perm).Error; err != nil {
					return fmt.Errorf("create permission %s: %w", perm.Name, err)
				}
				permsByResource[sr.Name] = append(permsByResource[sr.Name], perm)
			}
		}

		accounts := []struct {
			Email    string
			Name     string
			Password string
			Role     string
		}{
			{"admin@example.com", "Administrator", "admin123", "admin"},
			{"manager@example.com", "Manager", "manager123", "manager"},
			{"user@example.com", "Test User", "user123", "user"},
		}
		for _, a := range accounts {
			hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcryptCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", a.Email, err)
			}
			u := &userDatamodel.User{
				Email:        a.Email,
				Name:         a.Name,
				PasswordHash: string(hash),
				IsActive:     true,
			}
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("create user %s: %w", a.Email, err)
			}
			if err := tx.Create(&rbacDatamodel.UserRole{UserID: u.ID, RoleID: roles[a.Role].ID}).Error; err != nil {
				return fmt.Errorf("assign role %s to %s: %w", a.Role, a.Email, err)
			}
		}

		// Admin holds every permission. Manager gets read, create and list on
		// the business resources, the regular user only read and list.
		managerActions := map[string]bool{"read": true, "create": true, "list": true}
		userActions := map[string]bool{"read": true, "list": true}

		for resName, perms := range permsByResource {
			for _, perm := range perms {
				if err := tx.Create(&rbacDatamodel.RolePermission{
					RoleID:       roles["admin"].ID,
					PermissionID: perm.ID,
				}).Error; err != nil {
					return fmt.Errorf("grant %s to admin: %w", perm.Name, err)
				}

				if !businessResources[resName] {
					continue
				}
				if managerActions[perm.Action] {
					if err := tx.Create(&rbacDatamodel.RolePermission{
						RoleID:       roles["manager"].ID,
						PermissionID: perm.ID,
					}).Error; err != nil {
						return fmt.Errorf("grant %s to manager: %w", perm.Name, err)
					}
				}
				if userActions[perm.Action] {
					if err := tx.Create(&rbacDatamodel.RolePermission{
						RoleID:       roles["user"].ID,
						PermissionID: perm.ID,
					}).Error; err != nil {
						return fmt.Errorf("grant %s to user: %w", perm.Name, err)
					}
				}
			}
		}

		fmt.Println("seed data created")
		fmt.Println("admin:   admin@example.com / admin123")
		fmt.Println("manager: manager@example.com / manager123")
		fmt.Println("user:    user@example.com / user123")
		return nil
	})
}
