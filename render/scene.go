package render

// Scene owns the root of the node tree. Other components borrow nodes from it but
// only the owner adds or removes top-level groups.
type Scene struct {
	Root *Node
}

func NewScene() *Scene {
	return &Scene{
		Root: NewGroup("scene", Tag{Kind: KindNone, ItemIndex: -1}),
	}
}

func (s *Scene) Add(nodes ...*Node) {
	s.Root.Add(nodes...)
}

func (s *Scene) FindTagged(kind NodeKind, itemIndex int) *Node {
	return s.Root.FindTagged(kind, itemIndex)
}

// Count returns the number of live nodes of the given kind.
func (s *Scene) Count(kind NodeKind) int {
	return len(s.Root.FindAll(kind))
}
