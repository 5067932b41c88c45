package db

import "errors"

// ErrTopicMissing reports that a mastery update referenced a topic id that is
// not in the graph.
var ErrTopicMissing = errors.New("topic does not exist")
