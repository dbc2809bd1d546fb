package project

// Project groups the devices belonging to one exhibit or installation scene.
// Activated marks the project currently running on the floor.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Activated   bool   `json:"activated"`
}

// Patch describes a partial update to a project.
// Nil fields are left unchanged.
type Patch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Activated   *bool   `json:"activated,omitempty"`
}
