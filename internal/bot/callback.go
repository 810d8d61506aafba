package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback kinds. The kind decides which extra fields ride along in the
// packed callback data.
const (
	kindMenu  = "menu"  // plain menu action
	kindEntry = "entry" // action on one entity (tag, account)
	kindPage  = "page"  // paginated menu action
	kindData  = "data"  // action carrying an opaque string
)

// Callback is the decoded inline-button payload. It is packed into the
// compact "kind:action[:arg]" form to stay inside Telegram's 64-byte
// callback data limit.
type Callback struct {
	Kind    string
	Action  string
	EntryID uint
	Page    int
	Data    string
}

// Encode packs the callback into its wire form.
func (c Callback) Encode() string {
	switch c.Kind {
	case kindEntry:
		return strings.Join([]string{c.Kind, c.Action, strconv.FormatUint(uint64(c.EntryID), 10)}, ":")
	case kindPage:
		return strings.Join([]string{c.Kind, c.Action, strconv.Itoa(c.Page)}, ":")
	case kindData:
		return strings.Join([]string{c.Kind, c.Action, c.Data}, ":")
	default:
		return strings.Join([]string{kindMenu, c.Action}, ":")
	}
}

// DecodeCallback parses the wire form back into a Callback.
func DecodeCallback(s string) (Callback, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || parts[1] == "" {
		return Callback{}, fmt.Errorf("invalid callback data %q", s)
	}
	c := Callback{Kind: parts[0], Action: parts[1]}
	switch c.Kind {
	case kindMenu:
		return c, nil
	case kindEntry:
		if len(parts) != 3 {
			return Callback{}, fmt.Errorf("invalid entry callback %q", s)
		}
		id, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return Callback{}, fmt.Errorf("invalid entry id in callback %q", s)
		}
		c.EntryID = uint(id)
		return c, nil
	case kindPage:
		if len(parts) != 3 {
			return Callback{}, fmt.Errorf("invalid page callback %q", s)
		}
		page, err := strconv.Atoi(parts[2])
		if err != nil || page < 0 {
			return Callback{}, fmt.Errorf("invalid page in callback %q", s)
		}
		c.Page = page
		return c, nil
	case kindData:
		if len(parts) != 3 {
			return Callback{}, fmt.Errorf("invalid data callback %q", s)
		}
		c.Data = parts[2]
		return c, nil
	default:
		return Callback{}, fmt.Errorf("unknown callback kind %q", parts[0])
	}
}

func menuCallback(action string) string {
	return Callback{Kind: kindMenu, Action: action}.Encode()
}

func entryCallback(action string, entryID uint) string {
	return Callback{Kind: kindEntry, Action: action, EntryID: entryID}.Encode()
}

func pageCallback(action string, page int) string {
	return Callback{Kind: kindPage, Action: action, Page: page}.Encode()
}

func dataCallback(action, data string) string {
	return Callback{Kind: kindData, Action: action, Data: data}.Encode()
}
