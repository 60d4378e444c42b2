package ulpcl

// flattenGroup recurses into group, prefixing every message id (and nested group namespace) with
// namespace, depth-first, messages of a group before its subgroups. Grounded on
// _Get_messages_from_group in compiler.cpp.
func flattenGroup(group Group, namespace string) []Message {
	messages := make([]Message, 0, len(group.Messages))
	for _, m := range group.Messages {
		messages = append(messages, Message{ID: namespace + m.ID, Value: m.Value})
	}
	for _, child := range group.Groups {
		messages = append(messages, flattenGroup(child, namespace+"."+child.Name)...)
	}
	return messages
}

// flattenContent flattens a whole pack's tree into the ordered message list that feeds the
// lookup table: root messages first in source order, then each top-level group's messages
// (still depth-first), using the group name itself (not namespace-prefixed) as the root of its
// own dotted path. Grounded on _Get_messages_from_content in compiler.cpp.
func flattenContent(content RootGroup) []Message {
	messages := make([]Message, len(content.Messages))
	copy(messages, content.Messages)
	for _, group := range content.Groups {
		messages = append(messages, flattenGroup(group, group.Name)...)
	}
	return messages
}
