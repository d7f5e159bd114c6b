// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package zdc

import (
	"context"
	"log/slog"

	"github.com/scidatacontainer/scidatacontainer/cmd/sdc/cli"
	"github.com/scidatacontainer/scidatacontainer/lib/container"
	"github.com/scidatacontainer/scidatacontainer/lib/version"
)

type createParams struct {
	cli.Settings
	cli.JSONOutput
	Type        string   `json:"type"         flag:"type"         desc:"container type name"`
	TypeID      string   `json:"type_id"      flag:"type-id"      desc:"standardized container type id"`
	TypeVersion string   `json:"type_version" flag:"type-version" desc:"standardized container type version"`
	Title       string   `json:"title"        flag:"title"        desc:"meta.json title"`
	Author      string   `json:"author"       flag:"author"       desc:"meta.json author (default from configuration)"`
	Email       string   `json:"email"        flag:"email"        desc:"meta.json email (default from configuration)"`
	Comment     string   `json:"comment"      flag:"comment"      desc:"meta.json comment"`
	Description string   `json:"description"  flag:"description"  desc:"meta.json description"`
	Keywords    []string `json:"keywords"     flag:"keyword"      desc:"meta.json keyword (repeatable)"`
	Replaces    string   `json:"replaces"     flag:"replaces"     desc:"UUID of the container this one replaces"`
	Items       []string `json:"items"        flag:"item"         desc:"item as path=file (repeatable)"`
	Content     string   `json:"content"      flag:"content"      desc:"JSONC file with content.json fields"`
	Meta        string   `json:"meta"         flag:"meta"         desc:"JSONC file with meta.json fields"`
	Open        bool     `json:"open"         flag:"open"         desc:"create an open multi-step container"`
	Hash        bool     `json:"hash"         flag:"hash"         desc:"compute and store the content hash"`
	Freeze      bool     `json:"freeze"       flag:"freeze"       desc:"make the container static"`
	Deflate     bool     `json:"deflate"      flag:"deflate"      desc:"deflate archive entries"`
	NoSoftware  bool     `json:"no_software"  flag:"no-software"  desc:"do not record sdc in usedSoftware"`
}

type createResult struct {
	Path string `json:"path"`
	UUID string `json:"uuid"`
	Kind string `json:"kind"`
	Hash string `json:"hash,omitempty"`
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a container archive",
		Usage:   "sdc create <out.zdc> [flags]",
		Description: `Create a new container archive from item files and metadata flags.

content.json and meta.json start from the --content and --meta files
when given (JSONC accepted), then the flags override individual fields.
Missing fields are filled with defaults: a fresh UUID, the creation
timestamp, and author/email from the configuration file.

Items are added with --item path=file. The item path's suffix selects
how the file is stored (json, txt, log, pgm, bin, cbor, yaml).`,
		Examples: []cli.Example{
			{
				Description: "Single-step container with one data file",
				Command:     "sdc create run.zdc --type scan --title 'Calibration' --item data/values.json=values.json",
			},
			{
				Description: "Start a multi-step container",
				Command:     "sdc create series.zdc --type series --title 'Overnight' --open",
			},
			{
				Description: "Static container, deflated",
				Command:     "sdc create ref.zdc --type reference --title 'Reference' --item data/ref.bin=ref.bin --freeze --deflate",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, 1, "sdc create <out.zdc> [flags]"); err != nil {
				return err
			}
			if params.Open && params.Freeze {
				return cli.Validation("--open and --freeze are mutually exclusive")
			}
			outPath := args[0]

			options, err := params.ContainerOptions(logger)
			if err != nil {
				return err
			}
			if params.Deflate {
				options.Archive.Compression = container.Deflate
			}

			items, err := params.items()
			if err != nil {
				return err
			}
			c, err := container.New(items, options)
			if err != nil {
				return cli.Classify(err)
			}

			switch {
			case params.Freeze:
				if _, err := c.Freeze(); err != nil {
					return cli.Classify(err)
				}
			case params.Hash:
				if _, err := c.ComputeHash(); err != nil {
					return cli.Classify(err)
				}
			}
			if err := c.WriteFile(outPath); err != nil {
				return cli.Classify(err)
			}
			logger.Info("container created", "path", outPath, "uuid", c.UUID(), "kind", c.Kind().String())

			result := createResult{Path: outPath, UUID: c.UUID(), Kind: c.Kind().String(), Hash: c.Hash()}
			if done, err := params.EmitJSON(ctx, result); done {
				return err
			}
			cli.Printf(ctx, "%s\n", c.UUID())
			return nil
		},
	}
}

// items assembles the item map: content.json and meta.json from files
// and flags, then the --item files.
func (p *createParams) items() (map[string]any, error) {
	content := map[string]any{}
	if p.Content != "" {
		record, err := readRecordFile(p.Content)
		if err != nil {
			return nil, err
		}
		content = record
	}
	if p.Type != "" {
		containerType := map[string]any{"name": p.Type}
		if p.TypeID != "" {
			containerType["id"] = p.TypeID
		}
		if p.TypeVersion != "" {
			containerType["version"] = p.TypeVersion
		}
		content["containerType"] = containerType
	} else if p.TypeID != "" || p.TypeVersion != "" {
		return nil, cli.Validation("--type-id and --type-version require --type")
	}
	if _, ok := content["containerType"]; !ok {
		return nil, cli.Validation("a container type is required (--type or containerType in --content)")
	}
	if p.Replaces != "" {
		content["replaces"] = p.Replaces
	}
	if p.Open {
		content["complete"] = false
	}
	if !p.NoSoftware {
		software, _ := content["usedSoftware"].([]any)
		content["usedSoftware"] = append(software, version.Software())
	}

	meta := map[string]any{}
	if p.Meta != "" {
		record, err := readRecordFile(p.Meta)
		if err != nil {
			return nil, err
		}
		meta = record
	}
	for key, value := range map[string]string{
		"title":       p.Title,
		"author":      p.Author,
		"email":       p.Email,
		"comment":     p.Comment,
		"description": p.Description,
	} {
		if value != "" {
			meta[key] = value
		}
	}
	if len(p.Keywords) > 0 {
		keywords := make([]any, len(p.Keywords))
		for index, keyword := range p.Keywords {
			keywords[index] = keyword
		}
		meta["keywords"] = keywords
	}
	if _, ok := meta["title"]; !ok {
		return nil, cli.Validation("a title is required (--title or title in --meta)")
	}

	items := map[string]any{
		container.ContentPath: content,
		container.MetaPath:    meta,
	}
	for _, spec := range p.Items {
		itemPath, filePath, err := parseItemSpec(spec)
		if err != nil {
			return nil, err
		}
		if itemPath == container.ContentPath || itemPath == container.MetaPath {
			return nil, cli.Validation("use --content or --meta for %s", itemPath)
		}
		data, err := readItemFile(itemPath, filePath)
		if err != nil {
			return nil, err
		}
		items[itemPath] = data
	}
	return items, nil
}
