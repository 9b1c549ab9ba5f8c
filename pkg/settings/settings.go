package settings

// Settings is the persisted document.
type Settings struct {
	Template  Chunks    `json:"template"`
	Resources Resources `json:"resources"`
	View      View      `json:"view"`
}

// Resources lists uploaded resources in upload order.
type Resources struct {
	Images []Resource `json:"images"`
}

// View holds display options.
type View struct {
	// HideDefaultTemplateMessage suppresses the tutorial block shown in
	// place of an empty template.
	HideDefaultTemplateMessage bool `json:"hideDefaultTemplateMessage"`
}

// Default returns empty settings.
func Default() *Settings {
	return &Settings{Resources: Resources{Images: []Resource{}}}
}

// Resource returns the resource called name.
func (s *Settings) Resource(name string) (Resource, bool) {
	for _, r := range s.Resources.Images {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// PutResource adds r, replacing a resource of the same name in place.
func (s *Settings) PutResource(r Resource) {
	for i := range s.Resources.Images {
		if s.Resources.Images[i].Name == r.Name {
			s.Resources.Images[i] = r
			return
		}
	}
	s.Resources.Images = append(s.Resources.Images, r)
}

// RemoveResource deletes the resource called name.
func (s *Settings) RemoveResource(name string) error {
	for i, r := range s.Resources.Images {
		if r.Name == name {
			s.Resources.Images = append(s.Resources.Images[:i], s.Resources.Images[i+1:]...)
			return nil
		}
	}
	return ErrResourceNotFound
}
