package ulpcl

// Message is a single leaf entry of a pack: an id paired with its localized text. In the parse
// tree the id is the raw '#'-prefixed name; flattenContent prefixes it with its group path.
type Message struct {
	ID    string
	Value string
}

// Group is a named node in the pack's tree, holding its own messages plus any nested subgroups.
type Group struct {
	Name     string
	Messages []Message
	Groups   []Group
}

// RootGroup is the unnamed top-level container of a pack's '@content' body.
type RootGroup struct {
	Messages []Message
	Groups   []Group
}

// ParseTree is the fully parsed form of one '.ulp' pack: its declared language and LCID, plus
// the message tree found inside '@content'.
type ParseTree struct {
	Language string
	LCID     uint32
	Content  RootGroup
}
