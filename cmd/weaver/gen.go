package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weaver-dev/weaver/internal/config"
)

func genCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <type>",
		Short: "Generate code",
		Long: `Generate scaffolding for Weaver constructs.

Types:
  logic       Generate a new logic-module JS stub
  component   Generate a new Go component stub

Examples:
  weaver gen logic increment      # Generate app/logic/increment.js
  weaver gen component Card       # Generate app/components/card.go`,
	}

	cmd.AddCommand(genLogicCmd(), genComponentCmd())

	return cmd
}

// =============================================================================
// weaver gen logic
// =============================================================================

func genLogicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logic <name>",
		Short: "Generate a new logic-module JS stub",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenLogic(args[0])
		},
	}
	return cmd
}

func runGenLogic(name string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	logicDir := cfg.LogicPath()
	if err := os.MkdirAll(logicDir, 0755); err != nil {
		return err
	}

	fileName := toSnakeCase(name) + ".js"
	path := filepath.Join(logicDir, fileName)

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	content := fmt.Sprintf(`export default function %s(...args) {
  // Runs server-side via the worker pool when invoked through the
  // %s handler bound to it by a define* call site.
  return args;
}
`, toCamelCase(name), name)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return err
	}

	success("Created %s", path)
	info("Reference it from a component with defineHandler(import(%q), [...])", "./"+fileName)
	return nil
}

// =============================================================================
// weaver gen component
// =============================================================================

func genComponentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "component <Name>",
		Short: "Generate a new Go component stub",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenComponent(args[0])
		},
	}
	return cmd
}

func runGenComponent(name string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	componentsDir := cfg.ComponentsPath()
	if err := os.MkdirAll(componentsDir, 0755); err != nil {
		return err
	}

	pascal := toPascalCase(name)
	fileName := toSnakeCase(name) + ".go"
	path := filepath.Join(componentsDir, fileName)

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	content := fmt.Sprintf(`package components

import (
	"github.com/weaver-dev/weaver/el"
)

// %s renders as a div; replace the body with real markup and signals.
// To give it client-addressable server logic, back it with a
// signal.Logic/signal.Component pair and render it via el.Component
// instead of calling this directly.
func %s(props map[string]any) *el.Node {
	return el.Div(
		el.Text(%q),
	)
}
`, pascal, pascal, pascal)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return err
	}

	success("Created %s", path)
	return nil
}

// =============================================================================
// naming helpers
// =============================================================================

func toSnakeCase(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	var out strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out.WriteByte('_')
			}
			out.WriteRune(r - 'A' + 'a')
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func toCamelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == '/'
	})
	var out strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			out.WriteString(strings.ToLower(p[:1]) + p[1:])
		} else {
			out.WriteString(strings.ToUpper(p[:1]) + p[1:])
		}
	}
	return out.String()
}

func toPascalCase(s string) string {
	camel := toCamelCase(s)
	if camel == "" {
		return camel
	}
	return strings.ToUpper(camel[:1]) + camel[1:]
}
