// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/archive"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/differ"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/meta"
	"github.com/staranto/wsinfra/internal/tvutil"
)

// PickSpec opens the version picker.
const PickSpec = "+"

// ErrDiffers is returned with --exit-code when the documents differ.
var ErrDiffers = errors.New("templates differ")

// pick is swapped out by tests.
var pick = differ.Pick

// side is one document of a diff.
type side struct {
	label string
	body  []byte
}

// diffCommandAction compares two template documents. With no spec the local
// template is compared against the latest archived version, with one spec
// against that spec, and with two specs the specs against each other. A
// lone "+" picks two archived versions interactively.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}

	config.Config.Namespace = "diff"

	specs := positional(cmd)
	if len(specs) > 2 {
		return fmt.Errorf("diff takes at most two version specs, got %d", len(specs))
	}

	left, right, err := diffSides(ctx, cmd, specs)
	if err != nil {
		return err
	}
	if left.body == nil || right.body == nil {
		return nil
	}

	w := stdout(cmd)
	if cmd.Bool("titles") {
		fmt.Fprintf(w, "--- %s\n+++ %s\n", left.label, right.label)
	}

	differs, err := differ.Diff(left.body, right.body, differ.Options{
		Ignore: cmd.StringSlice("ignore"),
		Color:  cmd.Bool("color"),
	}, w)
	if err != nil {
		return err
	}
	if differs && cmd.Bool("exit-code") {
		return ErrDiffers
	}
	return nil
}

// diffSides resolves the two documents to compare. Both sides are nil when
// the picker was abandoned.
func diffSides(ctx context.Context, cmd *cli.Command, specs []string) (side, side, error) {
	// Two local files need no archive.
	if len(specs) == 2 && isFile(specs[0]) && isFile(specs[1]) {
		l, err := readSide(specs[0])
		if err != nil {
			return side{}, side{}, err
		}
		r, err := readSide(specs[1])
		return l, r, err
	}
	if len(specs) == 1 && isFile(specs[0]) {
		return fileAgainstLocal(ctx, cmd, specs[0])
	}

	a, s, err := OpenArchive(ctx, cmd)
	if err != nil {
		return side{}, side{}, err
	}
	stack, err := Stack(cmd)
	if err != nil {
		return side{}, side{}, err
	}

	if len(specs) == 1 && specs[0] == PickSpec {
		if specs, err = pickSpecs(ctx, a, stack); err != nil || specs == nil {
			return side{}, side{}, err
		}
	}

	if len(specs) == 2 {
		docs, err := a.Resolve(ctx, stack, specs...)
		if err != nil {
			return side{}, side{}, err
		}
		return docSide(docs[0]), docSide(docs[1]), nil
	}

	docs, err := a.Resolve(ctx, stack, specs...)
	if err != nil {
		return side{}, side{}, err
	}
	tpl, err := Template(ctx, cmd, s, stack)
	if err != nil {
		return side{}, side{}, err
	}
	return docSide(docs[0]), side{label: tpl.Source, body: tpl.Raw()}, nil
}

func fileAgainstLocal(ctx context.Context, cmd *cli.Command, path string) (side, side, error) {
	l, err := readSide(path)
	if err != nil {
		return side{}, side{}, err
	}
	s, err := Settings(cmd)
	if err != nil {
		return side{}, side{}, err
	}
	stack, err := Stack(cmd)
	if err != nil {
		return side{}, side{}, err
	}
	tpl, err := Template(ctx, cmd, s, stack)
	if err != nil {
		return side{}, side{}, err
	}
	return l, side{label: tpl.Source, body: tpl.Raw()}, nil
}

// pickSpecs lets the operator choose two versions, returned oldest first.
func pickSpecs(ctx context.Context, a *archive.Archive, stack string) ([]string, error) {
	versions, err := a.Versions(ctx, stack, 0)
	if err != nil {
		return nil, err
	}
	if len(versions) < 2 {
		return nil, fmt.Errorf("%w: %s has %d archived versions, need 2", tvutil.ErrOutOfRange, stack, len(versions))
	}

	items := make([]differ.Item, 0, len(versions))
	for i, v := range versions {
		items = append(items, differ.Item{
			ID:    v.ID,
			Label: fmt.Sprintf("TV~%-3d %s  %s  %s", i, v.ID, humanize.Time(v.Created), short(v.Fingerprint)),
		})
	}

	chosen, err := pick(items)
	if err != nil || len(chosen) != 2 {
		return nil, err
	}
	return []string{chosen[0].ID, chosen[1].ID}, nil
}

func docSide(d archive.Document) side {
	return side{label: d.Target.String(), body: d.Body}
}

func readSide(path string) (side, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return side{}, err
	}
	return side{label: path, body: b}, nil
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func short(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}

func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "diff the local template against archived versions",
		UsageText: `wsinfra diff [ProjectDir[::Stack]] [SPEC [SPEC]] [options]

SPEC is TV~N (N-th most recent), a version id prefix, a template file, or
-- followed by 0/-N. A lone + opens the version picker.`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored diff output",
			},
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "fail when the templates differ",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "top-level template keys to leave out of the comparison",
				Value: []string{"Parameters", "Rules"},
			},
			&cli.BoolFlag{
				Name:    "titles",
				Aliases: []string{"t"},
				Usage:   "label the two sides",
			},
			newTldrFlag(),
		}, templateFlags("diff", meta.Config.Source)...), archiveFlags("diff", meta.Config.Source)...),
		Action: diffCommandAction,
	}
}
