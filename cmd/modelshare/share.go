package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"modelshare/internal/manifest"
	"modelshare/internal/share"
)

type shareFlags struct {
	project    string
	model      string
	usdz       string
	preview    string
	skybox     string
	background string
	variants   []string
}

func (f *shareFlags) settings(a *app) *share.Settings {
	if f.skybox == "" && f.background == "" {
		return nil
	}
	s := share.Settings{Skybox: a.cfg.Share.Skybox, Background: a.cfg.Share.Background}
	if f.skybox != "" {
		s.Skybox = f.skybox
	}
	if f.background != "" {
		s.Background = f.background
	}
	return &s
}

func (a *app) orchestrator(cmd *cobra.Command) (*share.Orchestrator, error) {
	store, err := a.blobStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	return share.New(store, a.cfg.Share.Origin,
		share.WithSettings(share.Settings{Skybox: a.cfg.Share.Skybox, Background: a.cfg.Share.Background}),
		share.WithLogger(a.logger),
		share.WithMetrics(a.metrics),
		share.WithLimiter(manifest.NewLimiter(a.cfg.Share.UploadRate, a.cfg.Share.UploadBurst)),
		share.WithPreviewMaxEdge(a.cfg.Share.PreviewSize),
	)
}

func newShareCmd(a *app) *cobra.Command {
	var f shareFlags
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Upload the primary model and any extra variants, then publish share-data.json",
		Example: `  modelshare share --project demo --model robot.glb --usdz robot.usdz \
    --variant red=robot-red.glb,preview=red.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			primary, err := readVariant("", f.model, f.usdz, f.preview)
			if err != nil {
				return err
			}
			variants := []manifest.Variant{primary}
			for _, raw := range f.variants {
				v, err := parseVariant(raw)
				if err != nil {
					return err
				}
				variants = append(variants, v)
			}
			orch, err := a.orchestrator(cmd)
			if err != nil {
				return err
			}
			ref, err := orch.Share(cmd.Context(), share.Request{
				Project:  f.project,
				Variants: variants,
				Settings: f.settings(a),
			})
			if err != nil {
				return err
			}
			return a.printJSON(ref)
		},
	}
	cmd.Flags().StringVar(&f.project, "project", "", "project name (required)")
	cmd.Flags().StringVar(&f.model, "model", "", "primary .glb model (required)")
	cmd.Flags().StringVar(&f.usdz, "usdz", "", "AR companion for the primary model")
	cmd.Flags().StringVar(&f.preview, "preview", "", "preview image for the primary model")
	cmd.Flags().StringVar(&f.skybox, "skybox", "", "viewer skybox preset")
	cmd.Flags().StringVar(&f.background, "background", "", "viewer background color (#RRGGBB)")
	cmd.Flags().StringArrayVar(&f.variants, "variant", nil, "extra variant name=model.glb[,usdz=file][,preview=file]; repeatable")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func newShareARCmd(a *app) *cobra.Command {
	var f shareFlags
	cmd := &cobra.Command{
		Use:   "share-ar",
		Short: "Upload one model and optional USDZ, then publish share-ar-data.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := readVariant("", f.model, f.usdz, "")
			if err != nil {
				return err
			}
			orch, err := a.orchestrator(cmd)
			if err != nil {
				return err
			}
			ref, err := orch.ShareAR(cmd.Context(), share.ARRequest{
				Project:     f.project,
				Model:       v.Model,
				ARCompanion: v.ARCompanion,
				Settings:    f.settings(a),
			})
			if err != nil {
				return err
			}
			return a.printJSON(ref)
		},
	}
	cmd.Flags().StringVar(&f.project, "project", "", "project name (required)")
	cmd.Flags().StringVar(&f.model, "model", "", ".glb model (required)")
	cmd.Flags().StringVar(&f.usdz, "usdz", "", "AR companion")
	cmd.Flags().StringVar(&f.skybox, "skybox", "", "viewer skybox preset")
	cmd.Flags().StringVar(&f.background, "background", "", "viewer background color (#RRGGBB)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

// parseVariant reads name=model.glb[,usdz=path][,preview=path].
func parseVariant(raw string) (manifest.Variant, error) {
	parts := strings.Split(raw, ",")
	name, model, ok := strings.Cut(parts[0], "=")
	if !ok || name == "" || model == "" {
		return manifest.Variant{}, fmt.Errorf("--variant %q: want name=model.glb", raw)
	}
	var usdz, preview string
	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(p, "=")
		if !ok || v == "" {
			return manifest.Variant{}, fmt.Errorf("--variant %q: bad option %q", raw, p)
		}
		switch k {
		case "usdz":
			usdz = v
		case "preview":
			preview = v
		default:
			return manifest.Variant{}, fmt.Errorf("--variant %q: unknown option %q", raw, k)
		}
	}
	return readVariant(name, model, usdz, preview)
}

func readVariant(name, model, usdz, preview string) (manifest.Variant, error) {
	v := manifest.Variant{Name: name}
	var err error
	if v.Model, err = os.ReadFile(model); err != nil {
		return v, fmt.Errorf("read model: %w", err)
	}
	if usdz != "" {
		if v.ARCompanion, err = os.ReadFile(usdz); err != nil {
			return v, fmt.Errorf("read usdz: %w", err)
		}
	}
	if preview != "" {
		if v.Preview, err = os.ReadFile(preview); err != nil {
			return v, fmt.Errorf("read preview: %w", err)
		}
	}
	return v, nil
}
