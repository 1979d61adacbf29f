package commands

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/intl"
)

type trUsage struct {
	Key  string
	File string
	Line int
}

func languageTags(allowedLanguages []string) ([]language.Tag, error) {
	if len(allowedLanguages) == 0 {
		allowedLanguages = intl.Codes()
	}
	tags := make([]language.Tag, 0, len(allowedLanguages))
	for _, code := range allowedLanguages {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed language %q: %w", code, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// CheckTrKeys reports keys defined in one locale but missing in another.
func CheckTrKeys(allowedLanguages []string, mods ...application.Module) error {
	app, err := newApplication(mods...)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	tags, err := languageTags(allowedLanguages)
	if err != nil {
		return err
	}
	missing := missingKeys(app.Bundle().Messages(), tags)
	if len(missing) == 0 {
		logrus.WithField("locales", len(tags)).Info("All translation keys are present in every locale")
		return nil
	}
	for locale, keys := range missing {
		for _, key := range keys {
			logrus.WithFields(logrus.Fields{"locale": locale, "key": key}).Error("Translation key missing")
		}
	}
	return fmt.Errorf("some translation keys are missing")
}

// missingKeys returns, per locale, the sorted keys another locale defines
// and this one lacks.
func missingKeys(messages map[language.Tag]map[string]*i18n.MessageTemplate, tags []language.Tag) map[string][]string {
	all := map[string]bool{}
	for _, tag := range tags {
		for key := range messages[tag] {
			all[key] = true
		}
	}
	out := map[string][]string{}
	for _, tag := range tags {
		for key := range all {
			if messages[tag][key] == nil {
				out[tag.String()] = append(out[tag.String()], key)
			}
		}
		sort.Strings(out[tag.String()])
	}
	for locale, keys := range out {
		if len(keys) == 0 {
			delete(out, locale)
		}
	}
	return out
}

// CheckTrUsage scans the Go sources under root for literal message ids and
// checks each one exists in every allowed locale.
func CheckTrUsage(root string, allowedLanguages []string, mods ...application.Module) error {
	app, err := newApplication(mods...)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	tags, err := languageTags(allowedLanguages)
	if err != nil {
		return err
	}
	usages, err := collectTrUsages(root)
	if err != nil {
		return err
	}
	if len(usages) == 0 {
		return fmt.Errorf("no translation usages found")
	}

	messages := app.Bundle().Messages()
	seen := make(map[string]bool)
	failed := false
	for _, u := range usages {
		if seen[u.Key] {
			continue
		}
		seen[u.Key] = true
		for _, tag := range tags {
			if messages[tag][u.Key] == nil {
				failed = true
				logrus.WithFields(logrus.Fields{
					"locale": tag.String(),
					"key":    u.Key,
					"source": fmt.Sprintf("%s:%d", u.File, u.Line),
				}).Error("Translation key missing in allowed locales")
			}
		}
	}
	if failed {
		return fmt.Errorf("some translation keys are missing in allowed locales")
	}
	logrus.WithField("unique_keys", len(seen)).Info("All translation usages are present in allowed locales")
	return nil
}

func collectTrUsages(root string) ([]trUsage, error) {
	var usages []trUsage
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			name := d.Name()
			if rel != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".go") || strings.HasSuffix(rel, "_test.go") {
			return nil
		}
		fileUsages, err := collectTrUsagesFromGoFile(path, rel)
		if err != nil {
			return err
		}
		usages = append(usages, fileUsages...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return usages, nil
}

// collectTrUsagesFromGoFile finds intl.Localize(ctx, "id", ...) calls and
// MessageID: "id" fields.
func collectTrUsagesFromGoFile(absPath, relPath string) ([]trUsage, error) {
	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, absPath, src, 0)
	if err != nil {
		return nil, err
	}

	var usages []trUsage
	add := func(expr ast.Expr) {
		if key, ok := stringLiteral(expr); ok {
			pos := fset.Position(expr.Pos())
			usages = append(usages, trUsage{Key: key, File: relPath, Line: pos.Line})
		}
	}
	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.CallExpr:
			selector, ok := node.Fun.(*ast.SelectorExpr)
			if !ok || selector.Sel.Name != "Localize" || len(node.Args) < 2 {
				return true
			}
			add(node.Args[1])
		case *ast.KeyValueExpr:
			if key, ok := node.Key.(*ast.Ident); ok && key.Name == "MessageID" {
				add(node.Value)
			}
		}
		return true
	})
	return usages, nil
}

func stringLiteral(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	unquoted, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return unquoted, true
}
