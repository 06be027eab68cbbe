package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"modelshare/internal/viewer"
)

type viewOutput struct {
	Share  *viewer.ShareView `json:"share,omitempty"`
	AR     *viewer.ARView    `json:"ar,omitempty"`
	ARLink string            `json:"arLink,omitempty"`
	ARNote string            `json:"arNote,omitempty"`
}

var errNotShared = errors.New("project has not been shared")

func newViewCmd(a *app) *cobra.Command {
	var (
		project   string
		ar        bool
		userAgent string
		variant   int
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Resolve a published share the way the viewer pages do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.blobStore(cmd.Context())
			if err != nil {
				return err
			}
			r := viewer.NewReader(store, a.logger)
			platform := viewer.DetectPlatform(userAgent)
			var (
				out  viewOutput
				link string
			)
			if ar {
				v, found, err := r.AR(cmd.Context(), project)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%s: %w", project, errNotShared)
				}
				out.AR = &v
				link, err = v.ARLaunch(platform)
				out.ARNote = note(err)
			} else {
				v, found, err := r.Share(cmd.Context(), project)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%s: %w", project, errNotShared)
				}
				out.Share = &v
				link, err = v.ARLaunch(platform, variant)
				out.ARNote = note(err)
			}
			if userAgent != "" {
				out.ARLink = link
			} else {
				out.ARNote = ""
			}
			return a.printJSON(out)
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name (required)")
	cmd.Flags().BoolVar(&ar, "ar", false, "read share-ar-data.json instead of share-data.json")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "resolve the AR launch link for this User-Agent")
	cmd.Flags().IntVar(&variant, "variant", -1, "variant index for the AR link; -1 is the default model")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func note(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
