package db

// EntityKind names the node kinds that carry embedding vectors.
type EntityKind string

const (
	KindTopic    EntityKind = "topic"
	KindDocument EntityKind = "document"
	KindSection  EntityKind = "section"
	KindExercise EntityKind = "exercise"
)

// VectorKinds lists every kind with a named vector index, in bootstrap order.
func VectorKinds() []EntityKind {
	return []EntityKind{KindTopic, KindDocument, KindSection, KindExercise}
}

func (k EntityKind) Label() string {
	switch k {
	case KindTopic:
		return "Topic"
	case KindDocument:
		return "Document"
	case KindSection:
		return "Section"
	case KindExercise:
		return "Exercise"
	default:
		return ""
	}
}

// IndexName follows the one-named-index-per-kind convention.
func (k EntityKind) IndexName() string {
	return string(k) + "_vector"
}
