package manifest

// Display holds the viewer environment settings written into manifests.
type Display struct {
	Skybox     string
	Background string
}

// ShareManifest is share-data.json. Variants and USDZVariants are index
// aligned; Previews only lists the previews that exist.
type ShareManifest struct {
	ModelURL     string    `json:"modelUrl"`
	Skybox       string    `json:"skybox"`
	Background   string    `json:"background"`
	Variants     []string  `json:"variants"`
	USDZVariants []*string `json:"usdzVariants"`
	Previews     []string  `json:"previews"`
}

// ARManifest is share-ar-data.json.
type ARManifest struct {
	ModelURL   string  `json:"modelUrl"`
	USDZURL    *string `json:"usdzUrl"`
	Skybox     string  `json:"skybox"`
	Background string  `json:"background"`
}

// ShareManifest assembles share-data.json from uploaded URLs.
func (r *Result) ShareManifest(d Display) ShareManifest {
	m := ShareManifest{
		Skybox:       d.Skybox,
		Background:   d.Background,
		Variants:     append([]string{}, r.ModelURLs...),
		USDZVariants: make([]*string, len(r.ARURLs)),
		Previews:     append([]string{}, r.PreviewURLs...),
	}
	if len(r.ModelURLs) > 0 {
		m.ModelURL = r.ModelURLs[0]
	}
	for i, u := range r.ARURLs {
		if u != nil {
			s := *u
			m.USDZVariants[i] = &s
		}
	}
	return m
}

// ARManifest assembles share-ar-data.json from the primary variant.
func (r *Result) ARManifest(d Display) ARManifest {
	m := ARManifest{Skybox: d.Skybox, Background: d.Background}
	if len(r.ModelURLs) > 0 {
		m.ModelURL = r.ModelURLs[0]
	}
	if len(r.ARURLs) > 0 && r.ARURLs[0] != nil {
		s := *r.ARURLs[0]
		m.USDZURL = &s
	}
	return m
}
