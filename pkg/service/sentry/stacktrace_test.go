package sentry_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/orthos/pkg/service/sentry"
)

func TestFilterStacktrace(t *testing.T) {
	t.Run("keeps application frames in order", func(t *testing.T) {
		block := strings.Join([]string{
			"gems/actionpack-7.0.0/action_controller/metal.rb:212",
			"app/controllers/orders_controller.rb:17",
			"gems/activesupport-7.0.0/active_support/callbacks.rb:99",
			"app/models/order.rb:42",
		}, "\n")

		filtered := sentry.FilterStacktrace(block, nil)
		lines := strings.Split(filtered, "\n")

		gt.Equal(t, len(lines), 2)
		gt.Equal(t, lines[0], "app/controllers/orders_controller.rb:17")
		gt.Equal(t, lines[1], "app/models/order.rb:42")
	})

	t.Run("path fragments match anywhere in the line", func(t *testing.T) {
		// Gem paths containing lib/ count as application frames too
		block := "gems/actionpack-7.0.0/lib/action_controller/metal.rb:212"
		gt.Equal(t, sentry.FilterStacktrace(block, nil), block)
	})

	t.Run("caps filtered frames at fifteen", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 30; i++ {
			fmt.Fprintf(&b, "app/models/model_%02d.rb:%d\n", i, i)
		}

		filtered := sentry.FilterStacktrace(b.String(), nil)
		lines := strings.Split(filtered, "\n")

		gt.Equal(t, len(lines), 15)
		gt.Equal(t, lines[0], "app/models/model_00.rb:0")
		gt.Equal(t, lines[14], "app/models/model_14.rb:14")
	})

	t.Run("falls back to first fifteen raw lines when nothing matches", func(t *testing.T) {
		var raw []string
		for i := 0; i < 20; i++ {
			raw = append(raw, fmt.Sprintf("gems/rack-2.2.4/rack/handler.rb:%d", i))
		}

		filtered := sentry.FilterStacktrace(strings.Join(raw, "\n"), nil)
		lines := strings.Split(filtered, "\n")

		gt.Equal(t, len(lines), 15)
		gt.Equal(t, lines, raw[:15])
	})

	t.Run("filtered output is a subsequence of the input", func(t *testing.T) {
		block := strings.Join([]string{
			"frame one",
			"app/a.rb:1",
			"frame two",
			"src/b.py:2",
			"frame three",
			"lib/c.js:3",
		}, "\n")

		filtered := sentry.FilterStacktrace(block, nil)

		raw := strings.Split(block, "\n")
		idx := 0
		for _, line := range strings.Split(filtered, "\n") {
			found := false
			for ; idx < len(raw); idx++ {
				if raw[idx] == line {
					found = true
					idx++
					break
				}
			}
			gt.True(t, found)
		}
	})

	t.Run("custom application paths override the defaults", func(t *testing.T) {
		block := strings.Join([]string{
			"internal/server/handler.go:10",
			"app/ignored.rb:1",
		}, "\n")

		filtered := sentry.FilterStacktrace(block, []string{"internal/"})
		gt.Equal(t, filtered, "internal/server/handler.go:10")
	})
}

func TestExtractFilePaths(t *testing.T) {
	t.Run("extracts paths in order of first appearance", func(t *testing.T) {
		stack := strings.Join([]string{
			"    from app/components/questions_component.rb:22:in `block'",
			"    from app/controllers/pdfs_controller.rb:17:in `show'",
			"    from app/models/session_pdf.rb:42:in `create_pdf'",
		}, "\n")

		paths := sentry.ExtractFilePaths(stack)

		gt.Equal(t, paths, []string{
			"app/components/questions_component.rb",
			"app/controllers/pdfs_controller.rb",
			"app/models/session_pdf.rb",
		})
	})

	t.Run("duplicate references collapse to one entry", func(t *testing.T) {
		stack := "from app/models/foo.rb:10:in `a'\nfrom app/models/foo.rb:25:in `b'\n"

		paths := sentry.ExtractFilePaths(stack)
		gt.Equal(t, paths, []string{"app/models/foo.rb"})
	})

	t.Run("caps at five paths", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 8; i++ {
			fmt.Fprintf(&b, "from src/pkg_%d/mod.py:1\n", i)
		}

		paths := sentry.ExtractFilePaths(b.String())

		gt.Equal(t, len(paths), 5)
		gt.Equal(t, paths[0], "src/pkg_0/mod.py")
		gt.Equal(t, paths[4], "src/pkg_4/mod.py")
	})

	t.Run("ignores framework paths", func(t *testing.T) {
		stack := "gems/rails/action.rb:1\nvendor/bundle/thing.rb:2\n"
		gt.Equal(t, len(sentry.ExtractFilePaths(stack)), 0)
	})
}
