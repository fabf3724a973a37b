package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// ForbiddenCallsAnalyzer запрещает:
//   - прямой вызов os.Exit в функции main пакета main;
//   - http.DefaultClient и функции-обёртки net/http (Get, Head, Post, PostForm)
//     вне тестов: все исходящие запросы идут через клиент с пулом и таймаутом.
var ForbiddenCallsAnalyzer = &analysis.Analyzer{
	Name:     "forbiddencalls",
	Doc:      "prohibits os.Exit in main.main and net/http default client helpers outside tests",
	Run:      runForbiddenCalls,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

var httpHelpers = map[string]bool{
	"Get":      true,
	"Head":     true,
	"Post":     true,
	"PostForm": true,
}

func runForbiddenCalls(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.FuncDecl)(nil),
		(*ast.SelectorExpr)(nil),
	}

	insp.Preorder(nodeFilter, func(node ast.Node) {
		if isExcludedFile(pass.Fset.Position(node.Pos()).Filename) {
			return
		}

		switch n := node.(type) {
		case *ast.FuncDecl:
			if pass.Pkg.Name() == "main" && n.Name.Name == "main" && n.Recv == nil && n.Body != nil {
				checkOsExit(pass, n.Body)
			}
		case *ast.SelectorExpr:
			checkHTTPDefaults(pass, n)
		}
	})

	return nil, nil
}

// checkOsExit ищет вызовы os.Exit в теле функции main
func checkOsExit(pass *analysis.Pass, body *ast.BlockStmt) {
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Exit" {
			return true
		}
		if importedFrom(pass, sel, "os") {
			pass.Reportf(call.Pos(), "avoid direct os.Exit call in main function of main package")
		}
		return true
	})
}

// checkHTTPDefaults ищет http.DefaultClient и http.Get/Head/Post/PostForm
func checkHTTPDefaults(pass *analysis.Pass, sel *ast.SelectorExpr) {
	name := sel.Sel.Name
	if name != "DefaultClient" && !httpHelpers[name] {
		return
	}
	if !importedFrom(pass, sel, "net/http") {
		return
	}

	if name == "DefaultClient" {
		pass.Reportf(sel.Pos(), "avoid http.DefaultClient: it has no timeout")
		return
	}
	pass.Reportf(sel.Pos(), "avoid http.%s: it uses http.DefaultClient without timeout", name)
}

// importedFrom сообщает, что sel - обращение к пакету с путём path
func importedFrom(pass *analysis.Pass, sel *ast.SelectorExpr, path string) bool {
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	obj, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok {
		return false
	}
	return obj.Imported().Path() == path
}

// isExcludedFile пропускает тесты и сгенерированный go test файл main из кэша сборки,
// имя которого не оканчивается на .go
func isExcludedFile(filename string) bool {
	return !strings.HasSuffix(filename, ".go") || strings.HasSuffix(filename, "_test.go")
}
