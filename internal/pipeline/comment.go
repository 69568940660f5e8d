package pipeline

// CommentTable is the Driver-owned mapping from 1-based input record index
// to a comment string, populated from repeated -a N:comment flags.
type CommentTable struct {
	entries map[uint64]string
}

// NewCommentTable returns an empty table.
func NewCommentTable() *CommentTable {
	return &CommentTable{entries: make(map[uint64]string)}
}

// Set records the comment for a 1-based record index. A later Set for the
// same index overwrites the earlier one, per §3's "used at most once per
// index during emission" — only the final value at emission time matters.
func (t *CommentTable) Set(index uint64, comment string) {
	t.entries[index] = comment
}

// Lookup returns the comment configured for index, if any.
func (t *CommentTable) Lookup(index uint64) (string, bool) {
	c, ok := t.entries[index]
	return c, ok
}

// sidecarEntry is one persisted comment, keyed by the output file it
// landed in and its 1-based position within that file. See capio.Sink's
// doc comment for why comments land in a sidecar rather than the pcapng
// block itself.
type sidecarEntry struct {
	File    string `json:"file"`
	Index   uint64 `json:"index"`
	Comment string `json:"comment"`
}
