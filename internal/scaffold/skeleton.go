package scaffold

import "fmt"

// skeletonFiles are the service files generated resources depend on. A
// resource whose artifacts would land on one of them is rejected.
var skeletonFiles = map[string]bool{
	"internal/models/base.go":       true,
	"internal/models/registry.go":   true,
	"internal/repositories/base.go": true,
	"internal/api/v1/auth.go":       true,
	"internal/api/v1/auth_test.go":  true,
	"internal/api/v1/deps.go":       true,
	"internal/api/v1/helpers.go":    true,
	"internal/api/v1/router.go":     true,
}

type skeletonDecl struct {
	pkg  string
	name string
	file string
}

// skeletonDecls are the top-level names of the service skeleton in the
// packages generated code joins. Names declared in a file the resource
// regenerates itself (the user resource) do not count as clashes.
var skeletonDecls = []skeletonDecl{
	{"models", "Base", "internal/models/base.go"},
	{"models", "All", "internal/models/registry.go"},
	{"models", "User", "internal/models/user.go"},
	{"repositories", "Repository", "internal/repositories/base.go"},
	{"repositories", "NewRepository", "internal/repositories/base.go"},
	{"repositories", "UserRepository", "internal/repositories/user.go"},
	{"repositories", "NewUserRepository", "internal/repositories/user.go"},
	{"v1", "AuthHandler", "internal/api/v1/auth.go"},
	{"v1", "NewAuthHandler", "internal/api/v1/auth.go"},
	{"v1", "Deps", "internal/api/v1/deps.go"},
	{"v1", "Authenticate", "internal/api/v1/deps.go"},
	{"v1", "CurrentUser", "internal/api/v1/deps.go"},
	{"v1", "Page", "internal/api/v1/helpers.go"},
	{"v1", "DefaultLimit", "internal/api/v1/helpers.go"},
	{"v1", "RegisterRoutes", "internal/api/v1/router.go"},
	{"v1", "UserHandler", "internal/api/v1/users.go"},
	{"v1", "NewUserHandler", "internal/api/v1/users.go"},
	{"v1_test", "newAPI", "internal/api/v1/auth_test.go"},
	{"v1_test", "register", "internal/api/v1/auth_test.go"},
	{"v1_test", "login", "internal/api/v1/auth_test.go"},
	{"v1_test", "TestRegister", "internal/api/v1/auth_test.go"},
	{"v1_test", "TestRegisterDuplicateEmail", "internal/api/v1/auth_test.go"},
	{"v1_test", "TestRegisterValidation", "internal/api/v1/auth_test.go"},
	{"v1_test", "TestLogin", "internal/api/v1/auth_test.go"},
	{"v1_test", "TestLoginWrongPassword", "internal/api/v1/auth_test.go"},
	{"v1_test", "TestLoginUnknownEmail", "internal/api/v1/auth_test.go"},
	{"v1_test", "TestLoginInactiveUser", "internal/api/v1/auth_test.go"},
	{"v1_test", "TestMeRequiresToken", "internal/api/v1/users_test.go"},
	{"v1_test", "TestMe", "internal/api/v1/users_test.go"},
	{"v1_test", "TestMeDeletedUser", "internal/api/v1/users_test.go"},
	{"v1_test", "TestInactiveUserCanOnlyReadMe", "internal/api/v1/users_test.go"},
	{"v1_test", "TestUpdateMe", "internal/api/v1/users_test.go"},
	{"v1_test", "TestUpdateMeEmailTaken", "internal/api/v1/users_test.go"},
	{"v1_test", "TestListUsers", "internal/api/v1/users_test.go"},
	{"v1_test", "TestGetUser", "internal/api/v1/users_test.go"},
}

// generatedDecls lists the top-level names the templates declare for res,
// keyed by package.
func generatedDecls(res Resource) map[string][]string {
	t := res.TypeName()
	return map[string][]string{
		"models":       {t},
		"repositories": {t + "Repository", "New" + t + "Repository"},
		"v1":           {t + "Handler", "New" + t + "Handler"},
		"v1_test": {
			"new" + t + "App", "create" + t,
			"TestCreate" + t, "TestCreate" + t + "Duplicate", "TestList" + res.PluralTypeName(),
			"TestGet" + t, "TestGet" + t + "NotFound", "TestUpdate" + t, "TestDelete" + t,
		},
	}
}

// checkSkeleton rejects a resource that would overwrite a skeleton file or
// redeclare one of its names.
func checkSkeleton(res Resource) error {
	own := make(map[string]bool)
	for _, a := range artifactsFor(res) {
		if skeletonFiles[a.path] {
			return fmt.Errorf("%w: %q would overwrite %s", ErrReservedName, res.Name, a.path)
		}
		own[a.path] = true
	}

	generated := generatedDecls(res)
	for _, d := range skeletonDecls {
		if own[d.file] {
			continue
		}
		for _, name := range generated[d.pkg] {
			if name == d.name {
				return fmt.Errorf("%w: %q would redeclare %s.%s from %s", ErrReservedName, res.Name, d.pkg, d.name, d.file)
			}
		}
	}
	return nil
}
