package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modelshare/internal/preset"
	"modelshare/internal/transform"
	"modelshare/internal/viewer"
)

type presetsOutput struct {
	Project  string               `json:"project"`
	Source   preset.Source        `json:"source"`
	Phase    string               `json:"phase,omitempty"`
	Live     *transform.Transform `json:"live,omitempty"`
	Original *transform.Transform `json:"original,omitempty"`
	Presets  []viewer.PresetView  `json:"presets"`
}

func newPresetsCmd(a *app) *cobra.Command {
	var project, model string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Inspect and edit the saved view presets of a project",
	}
	cmd.PersistentFlags().StringVar(&project, "project", "", "project name (required)")
	_ = cmd.MarkPersistentFlagRequired("project")
	cmd.PersistentFlags().StringVar(&model, "model", "", ".glb or .gltf file whose re-centered pose becomes slot 0")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the preset slots and the tier they were loaded from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.presetStore(cmd)
			if err != nil {
				return err
			}
			set, src := store.Load(cmd.Context(), project)
			return a.printJSON(presetsOutput{Project: project, Source: src, Presets: nonNilViews(viewer.Views(set))})
		},
	})
	cmd.AddCommand(newPresetsCaptureCmd(a, &project, &model))
	cmd.AddCommand(newPresetsRecallCmd(a, &project, &model))
	return cmd
}

func newPresetsCaptureCmd(a *app, project, model *string) *cobra.Command {
	var (
		slot               int
		position, rotation string
	)
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Save a pose into slot 1-3 and sync the preset document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pose, err := parsePose(position, rotation)
			if err != nil {
				return err
			}
			store, err := a.presetStore(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			state, err := a.liveState(*model)
			if err != nil {
				return err
			}
			sess, err := preset.Open(ctx, *project, store, state, preset.WithSessionLogger(a.logger))
			if err != nil {
				return err
			}
			state.Set(pose)
			h, err := sess.Capture(ctx, slot)
			if err != nil {
				return err
			}
			if err := h.Wait(ctx); err != nil {
				return fmt.Errorf("sync presets: %w", err)
			}
			return a.printJSON(sessionOutput(sess, state))
		},
	}
	cmd.Flags().IntVar(&slot, "slot", 0, "slot to save into: 1, 2 or 3 (required)")
	cmd.Flags().StringVar(&position, "position", "0,0,0", "position x,y,z")
	cmd.Flags().StringVar(&rotation, "rotation", "0,0,0", "rotation x,y,z in degrees")
	_ = cmd.MarkFlagRequired("slot")
	return cmd
}

func newPresetsRecallCmd(a *app, project, model *string) *cobra.Command {
	var slot int
	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Apply slot 0-3 to a freshly loaded model and print the resulting pose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.presetStore(cmd)
			if err != nil {
				return err
			}
			state, err := a.liveState(*model)
			if err != nil {
				return err
			}
			sess, err := preset.Open(cmd.Context(), *project, store, state, preset.WithSessionLogger(a.logger))
			if err != nil {
				return err
			}
			ok, err := sess.Recall(slot)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("slot %d is empty", slot)
			}
			return a.printJSON(sessionOutput(sess, state))
		},
	}
	cmd.Flags().IntVar(&slot, "slot", 0, "slot to apply: 0 (original) to 3")
	return cmd
}

// liveState seeds the editable pose. With a model it starts from the
// re-centered node, otherwise from the identity pose.
func (a *app) liveState(model string) (*transform.State, error) {
	if model == "" {
		return transform.NewState(nil, transform.Identity()), nil
	}
	l, err := loadModel(model, a.cfg.Scene.FOV, a.cfg.Scene.MarginFactor)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("model loaded", zap.String("model", l.Node.Name), zap.Any("offset", l.Offset))
	return transform.NewState(l.Node, transform.FromNode(l.Node)), nil
}

func (a *app) presetStore(cmd *cobra.Command) (*preset.Store, error) {
	ctx := cmd.Context()
	blobs, err := a.blobStore(ctx)
	if err != nil {
		return nil, err
	}
	c, err := a.localCache(ctx)
	if err != nil {
		return nil, err
	}
	return preset.NewStore(blobs, c, preset.WithLogger(a.logger), preset.WithMetrics(a.metrics)), nil
}

func sessionOutput(sess *preset.Session, state *transform.State) presetsOutput {
	live := state.Transform()
	original := sess.Original()
	return presetsOutput{
		Project:  sess.Project(),
		Source:   sess.Source(),
		Phase:    sess.Phase().String(),
		Live:     &live,
		Original: &original,
		Presets:  nonNilViews(viewer.Views(sess.Presets())),
	}
}

func nonNilViews(v []viewer.PresetView) []viewer.PresetView {
	if v == nil {
		return []viewer.PresetView{}
	}
	return v
}

func parsePose(position, rotation string) (transform.Transform, error) {
	p, err := parseVec3(position)
	if err != nil {
		return transform.Transform{}, fmt.Errorf("--position: %w", err)
	}
	r, err := parseVec3(rotation)
	if err != nil {
		return transform.Transform{}, fmt.Errorf("--rotation: %w", err)
	}
	return transform.Transform{Position: p, Rotation: r}, nil
}

func parseVec3(s string) (transform.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return transform.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var out [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return transform.Vec3{}, err
		}
		out[i] = f
	}
	return transform.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}
