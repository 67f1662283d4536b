// Package theme loads color schemes and applies them to a renderer.
//
// A scheme is a set of color-pair definitions plus a cursor color. Two
// file formats are supported: JSON for static schemes and Lua for
// schemes that want to compute their colors.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/tessera-ui/tessera/internal/grid"
	"github.com/tessera-ui/tessera/internal/render"
)

// Entry defines one color pair.
type Entry struct {
	ID int
	FG grid.RGB
	BG grid.RGB
}

// Scheme is a named set of color-pair definitions.
type Scheme struct {
	Name    string
	Entries []Entry
	Cursor  grid.RGB
}

// Well-known pair ids used by the default scheme.
const (
	PairText      = 1
	PairDirectory = 2
	PairSelection = 3
	PairStatus    = 4
	PairError     = 5
)

// Default returns the built-in scheme.
func Default() *Scheme {
	return &Scheme{
		Name:   "default",
		Cursor: grid.RGB{R: 0xc8, G: 0xc8, B: 0xc8},
		Entries: []Entry{
			{ID: PairText, FG: grid.RGB{R: 0xdc, G: 0xdc, B: 0xdc}, BG: grid.RGB{R: 0x1e, G: 0x1e, B: 0x1e}},
			{ID: PairDirectory, FG: grid.RGB{R: 0xcc, G: 0xcc, B: 0x78}, BG: grid.RGB{R: 0x1e, G: 0x1e, B: 0x1e}},
			{ID: PairSelection, FG: grid.RGB{R: 0xff, G: 0xff, B: 0xff}, BG: grid.RGB{R: 0x28, G: 0x50, B: 0xa0}},
			{ID: PairStatus, FG: grid.RGB{R: 0x1e, G: 0x1e, B: 0x1e}, BG: grid.RGB{R: 0xa0, G: 0xa0, B: 0xa0}},
			{ID: PairError, FG: grid.RGB{R: 0xff, G: 0x50, B: 0x50}, BG: grid.RGB{R: 0x1e, G: 0x1e, B: 0x1e}},
		},
	}
}

// Apply registers every entry with the renderer. The first failing
// entry aborts: a half-applied scheme is better caught than painted.
func Apply(s *Scheme, r render.Renderer) error {
	for _, e := range s.Entries {
		if err := r.InitColorPair(e.ID, e.FG, e.BG); err != nil {
			return fmt.Errorf("apply scheme %q pair %d: %w", s.Name, e.ID, err)
		}
	}
	return nil
}

// Load reads a scheme file, dispatching on extension: .json or .lua.
func Load(path string) (*Scheme, error) {
	switch filepath.Ext(path) {
	case ".json":
		return LoadJSON(path)
	case ".lua":
		return LoadLua(path)
	}
	return nil, fmt.Errorf("scheme %s: unsupported format", path)
}

// LoadJSON parses a JSON scheme:
//
//	{
//	  "name": "dusk",
//	  "cursor": "#c8c8c8",
//	  "pairs": { "1": {"fg": "#dcdcdc", "bg": "#1e1e1e"}, ... }
//	}
func LoadJSON(path string) (*Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scheme: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("scheme %s: invalid JSON", path)
	}
	doc := gjson.ParseBytes(data)

	s := &Scheme{Name: doc.Get("name").String()}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	if cur := doc.Get("cursor"); cur.Exists() {
		if s.Cursor, err = grid.RGBFromHex(cur.String()); err != nil {
			return nil, fmt.Errorf("scheme %s: %w", path, err)
		}
	}

	var entryErr error
	doc.Get("pairs").ForEach(func(key, value gjson.Result) bool {
		id, err := strconv.Atoi(key.String())
		if err != nil || id < 1 || id > 255 {
			entryErr = fmt.Errorf("scheme %s: bad pair id %q", path, key.String())
			return false
		}
		fg, err := grid.RGBFromHex(value.Get("fg").String())
		if err != nil {
			entryErr = fmt.Errorf("scheme %s pair %d: %w", path, id, err)
			return false
		}
		bg, err := grid.RGBFromHex(value.Get("bg").String())
		if err != nil {
			entryErr = fmt.Errorf("scheme %s pair %d: %w", path, id, err)
			return false
		}
		s.Entries = append(s.Entries, Entry{ID: id, FG: fg, BG: bg})
		return true
	})
	if entryErr != nil {
		return nil, entryErr
	}

	sortEntries(s)
	return s, nil
}

// LoadLua runs a Lua scheme script. The script returns a table:
//
//	return {
//	  name = "dusk",
//	  cursor = "#c8c8c8",
//	  pairs = { [1] = { fg = "#dcdcdc", bg = "#1e1e1e" }, ... },
//	}
func LoadLua(path string) (*Scheme, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("scheme %s: %w", path, err)
	}
	top := L.Get(-1)
	tbl, ok := top.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("scheme %s: script must return a table, got %s", path, top.Type())
	}

	s := &Scheme{Name: lua.LVAsString(tbl.RawGetString("name"))}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	if cur := tbl.RawGetString("cursor"); cur != lua.LNil {
		var err error
		if s.Cursor, err = grid.RGBFromHex(lua.LVAsString(cur)); err != nil {
			return nil, fmt.Errorf("scheme %s: %w", path, err)
		}
	}

	pairs, ok := tbl.RawGetString("pairs").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("scheme %s: missing pairs table", path)
	}
	var entryErr error
	pairs.ForEach(func(key, value lua.LValue) {
		if entryErr != nil {
			return
		}
		id := int(lua.LVAsNumber(key))
		if id < 1 || id > 255 {
			entryErr = fmt.Errorf("scheme %s: bad pair id %v", path, key)
			return
		}
		def, ok := value.(*lua.LTable)
		if !ok {
			entryErr = fmt.Errorf("scheme %s pair %d: not a table", path, id)
			return
		}
		fg, err := grid.RGBFromHex(lua.LVAsString(def.RawGetString("fg")))
		if err != nil {
			entryErr = fmt.Errorf("scheme %s pair %d: %w", path, id, err)
			return
		}
		bg, err := grid.RGBFromHex(lua.LVAsString(def.RawGetString("bg")))
		if err != nil {
			entryErr = fmt.Errorf("scheme %s pair %d: %w", path, id, err)
			return
		}
		s.Entries = append(s.Entries, Entry{ID: id, FG: fg, BG: bg})
	})
	if entryErr != nil {
		return nil, entryErr
	}

	sortEntries(s)
	return s, nil
}

// WriteDefault writes the built-in scheme as a JSON file, creating
// parent directories as needed. Used to seed a user's config on first
// run.
func WriteDefault(path string) error {
	s := Default()
	data := []byte("{}")
	var err error
	if data, err = sjson.SetBytes(data, "name", s.Name); err != nil {
		return err
	}
	if data, err = sjson.SetBytes(data, "cursor", s.Cursor.Hex()); err != nil {
		return err
	}
	for _, e := range s.Entries {
		key := strconv.Itoa(e.ID)
		if data, err = sjson.SetBytes(data, "pairs."+key+".fg", e.FG.Hex()); err != nil {
			return err
		}
		if data, err = sjson.SetBytes(data, "pairs."+key+".bg", e.BG.Hex()); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func sortEntries(s *Scheme) {
	sort.Slice(s.Entries, func(i, j int) bool {
		return s.Entries[i].ID < s.Entries[j].ID
	})
}
