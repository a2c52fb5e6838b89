package component

// SceneNode marks an entity as an activatable part of the story. Inactive
// nodes are neither drawn nor updated.
type SceneNode struct {
	Name   string
	Active bool
}

var SceneNodeComponent = NewComponent[SceneNode]()
