package diff

// Kind classifies a node of the diff tree.
type Kind int

const (
	// Added marks keys present only in the new snapshot.
	Added Kind = iota
	// Removed marks keys present only in the old snapshot.
	Removed
	// Changed marks keys present in both snapshots whose content differs.
	Changed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Node is one keyed entry of the diff tree with its differing children,
// sorted by key. It is instantiated for the entity level ([EntityDiff]) and
// the version level ([VersionDiff]).
type Node[C any] struct {
	Kind     Kind
	Key      string
	Children []C
}

// PropertyDifference is a leaf: one property of a version. Old is nil for
// Added properties and New is nil for Removed ones.
type PropertyDifference struct {
	Name string
	Old  *string
	New  *string
}

// VersionDiff describes one version; Key is the version string.
type VersionDiff struct {
	Node[PropertyDifference]
}

// EntityType distinguishes tools from plugins.
type EntityType int

const (
	ToolEntity EntityType = iota
	PluginEntity
)

// Noun returns "tool" or "plugin".
func (t EntityType) Noun() string {
	if t == PluginEntity {
		return "plugin"
	}
	return "tool"
}

// EntityDiff describes one tool or plugin; Key is its name.
type EntityDiff struct {
	Node[VersionDiff]
	Type EntityType
}

// Diff is the root of the tree: every changed tool and plugin, sorted by
// name with tools before plugins of the same name.
type Diff struct {
	Entities []EntityDiff
}

// Counts returns how many child versions were added, removed and changed.
func (e *EntityDiff) Counts() (added, removed, changed int) {
	for _, v := range e.Children {
		switch v.Kind {
		case Added:
			added++
		case Removed:
			removed++
		case Changed:
			changed++
		}
	}
	return added, removed, changed
}
