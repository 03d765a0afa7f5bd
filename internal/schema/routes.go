package schema

import (
	"sort"
	"strings"

	"archviz/internal/analyzer"
)

// routePathKeywords mark files likely to declare HTTP endpoints.
var routePathKeywords = []string{"route", "routes", "router", "controller", "controllers", "handler", "handlers", "api", "endpoint", "endpoints", "views"}

// ExtractRoutes derives an endpoint view from the structural records:
// functions and methods in handler-flavored files become routes, with the
// HTTP method inferred from the name prefix and the path from the module
// and handler names.
func ExtractRoutes(records []*analyzer.StructuralRecord) []Route {
	var routes []Route

	for _, rec := range records {
		if rec.IsTest || !pathHasKeyword(rec.RelPath, routePathKeywords) {
			continue
		}

		collect := func(fn analyzer.FuncDecl) {
			if !exportedOrPublic(fn.Name) {
				return
			}
			method := methodFromName(fn.Name)
			routes = append(routes, Route{
				Path:         routePath(rec.ModuleID, fn.Name),
				Methods:      []string{method},
				Handler:      fn.Name,
				Source:       rec.RelPath,
				RequiresAuth: strings.Contains(strings.ToLower(rec.RelPath), "auth"),
			})
		}

		for _, fn := range rec.Functions {
			collect(fn)
		}
		for _, td := range rec.Types {
			for _, m := range td.Methods {
				collect(m)
			}
		}
	}

	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
	return routes
}

// exportedOrPublic filters out obvious non-handler helpers.
func exportedOrPublic(name string) bool {
	if name == "" || strings.HasPrefix(name, "_") {
		return false
	}
	switch name {
	case "init", "main", "__init__", "__str__", "__repr__":
		return false
	}
	return true
}

// methodFromName infers the HTTP method from a handler name prefix;
// anything unrecognized defaults to GET.
func methodFromName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "post") || strings.HasPrefix(lower, "create") || strings.HasPrefix(lower, "add"):
		return "POST"
	case strings.HasPrefix(lower, "put") || strings.HasPrefix(lower, "update") || strings.HasPrefix(lower, "set"):
		return "PUT"
	case strings.HasPrefix(lower, "patch"):
		return "PATCH"
	case strings.HasPrefix(lower, "delete") || strings.HasPrefix(lower, "remove"):
		return "DELETE"
	default:
		return "GET"
	}
}

// routePath builds a slash path from the module identifier and handler
// name, e.g. module "api.users" + handler "GetUser" -> "/api/users/get-user".
func routePath(moduleID, handler string) string {
	base := "/" + strings.ReplaceAll(moduleID, ".", "/")
	return base + "/" + kebab(handler)
}

func kebab(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		if r == '_' {
			b.WriteByte('-')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
