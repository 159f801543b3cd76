package watch

import "github.com/fsnotify/fsnotify"

// Op is the kind of file-system change
type Op string

const (
	OpAdd    Op = "add"
	OpChange Op = "change"
	OpRemove Op = "remove"
)

// Event is one file-system change, path relative to the watch root
type Event struct {
	Op   Op
	Path string
}

// verb is used in log messages ("file is changed")
func (o Op) verb() string {
	switch o {
	case OpAdd:
		return "added"
	case OpChange:
		return "changed"
	case OpRemove:
		return "removed"
	default:
		return string(o)
	}
}

// translateOp maps an fsnotify op to an Op. Chmod-only events are dropped.
func translateOp(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return OpAdd, true
	case op.Has(fsnotify.Write):
		return OpChange, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpRemove, true
	default:
		return "", false
	}
}
