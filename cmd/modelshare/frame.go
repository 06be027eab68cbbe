package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"modelshare/internal/scene"
)

type boundsJSON struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// frameOutput omits bounds that cannot be framed; they may hold infinities.
// Bounds and Camera are taken after re-centering by Offset.
type frameOutput struct {
	Offset     mgl64.Vec3   `json:"offset"`
	Bounds     *boundsJSON  `json:"bounds,omitempty"`
	Degenerate bool         `json:"degenerate"`
	Camera     scene.Camera `json:"camera"`
}

func newFrameCmd(a *app) *cobra.Command {
	var (
		model  string
		fov    float64
		margin float64
	)
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Compute the camera that fits a glTF model in view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("fov") {
				fov = a.cfg.Scene.FOV
			}
			if !cmd.Flags().Changed("margin") {
				margin = a.cfg.Scene.MarginFactor
			}
			l, err := loadModel(model, fov, margin)
			if err != nil {
				return err
			}
			b := l.Node.WorldBounds()
			out := frameOutput{Offset: l.Offset, Degenerate: b.IsDegenerate(), Camera: l.Camera}
			if !out.Degenerate {
				out.Bounds = &boundsJSON{Min: b.Min, Max: b.Max}
			}
			return a.printJSON(out)
		},
	}
	cmd.Flags().StringVar(&model, "model", "", ".glb or .gltf file (required)")
	cmd.Flags().Float64Var(&fov, "fov", scene.DefaultFOV, "vertical field of view in degrees")
	cmd.Flags().Float64Var(&margin, "margin", scene.DefaultMargin, "extra distance as a multiple of the largest dimension")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func loadModel(path string, fov, margin float64) (*scene.Loaded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer func() { _ = f.Close() }()
	return scene.Load(f, filepath.Base(path), fov, scene.WithMargin(margin))
}
