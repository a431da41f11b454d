// Package legacydef loads the flat table of legacy visual definitions used
// when importing old-format map content. Entries are keyed by (id, subid)
// and carry the tile masks the legacy editor shipped with.
package legacydef

import (
	"bufio"
	"encoding/hex"
	"io"
	"math/bits"
	"strconv"
	"strings"

	engerr "github.com/torvale/torvale-engine/internal/errors"
)

// Kind classifies a legacy definition for editor menus
type Kind int32

const (
	KindGround Kind = iota
	KindTown
	KindCreature
	KindHero
	KindArtifact
	KindResource
)

// DefInfo is one legacy visual definition. Masks are six bytes each, one
// per footprint row, bottom row first.
type DefInfo struct {
	Name string

	VisitMap       [6]byte
	BlockMap       [6]byte
	CoverageMap    [6]byte
	ShadowCoverage [6]byte

	// VisitDir holds the entry directions, same bit layout as movement
	// directions
	VisitDir byte

	ID    int32
	SubID int32

	TerrainAllowed uint32
	TerrainMenu    uint32

	Width  int32
	Height int32

	Kind          Kind
	PrintPriority int32

	visitable bool
}

// Less orders definitions by (id, subid)
func (d *DefInfo) Less(other *DefInfo) bool {
	if d.ID != other.ID {
		return d.ID < other.ID
	}
	return d.SubID < other.SubID
}

// IsVisitable reports whether any tile of the object can be entered
func (d *DefInfo) IsVisitable() bool {
	return d.visitable
}

// FetchInfoFromMSK derives print priority and visitability from the masks.
// Called once at load time, never lazily.
func (d *DefInfo) FetchInfoFromMSK() {
	d.visitable = false
	for _, row := range d.VisitMap {
		if row != 0 {
			d.visitable = true
			break
		}
	}
	if !d.visitable {
		d.VisitDir = 0
	}

	var blocked int
	for _, row := range d.BlockMap {
		blocked += bits.OnesCount8(row)
	}
	d.PrintPriority = int32(blocked)
}

// ParseEntries reads the whitespace-separated legacy definition table.
// Blank lines and lines starting with '#' are skipped. Any malformed line
// fails the parse as a unit.
func ParseEntries(r io.Reader) ([]*DefInfo, error) {
	if r == nil {
		return nil, engerr.LegacyUnreadablef("legacy data source is not available")
	}

	var entries []*DefInfo
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, engerr.WrapWithCode(err, engerr.CodeLegacyUnreadable,
				"malformed legacy definition at line "+strconv.Itoa(lineNo))
		}
		entry.FetchInfoFromMSK()
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, engerr.WrapWithCode(err, engerr.CodeLegacyUnreadable, "failed to read legacy data source")
	}

	return entries, nil
}

// Line layout: name, four 12-hex-char masks (block, visit, coverage,
// shadow), visitDir, terrainAllowed, terrainMenu, width, height, id,
// subid, kind.
func parseLine(line string) (*DefInfo, error) {
	fields := strings.Fields(line)
	if len(fields) != 13 {
		return nil, engerr.LegacyUnreadablef("expected 13 fields, got %d", len(fields))
	}

	d := &DefInfo{Name: fields[0]}

	var err error
	if d.BlockMap, err = parseMask(fields[1]); err != nil {
		return nil, err
	}
	if d.VisitMap, err = parseMask(fields[2]); err != nil {
		return nil, err
	}
	if d.CoverageMap, err = parseMask(fields[3]); err != nil {
		return nil, err
	}
	if d.ShadowCoverage, err = parseMask(fields[4]); err != nil {
		return nil, err
	}

	nums := make([]int64, 8)
	for i, field := range fields[5:] {
		nums[i], err = strconv.ParseInt(field, 10, 32)
		if err != nil {
			return nil, engerr.LegacyUnreadablef("field %d is not a number: %s", i+6, field)
		}
	}

	d.VisitDir = byte(nums[0])
	d.TerrainAllowed = uint32(nums[1])
	d.TerrainMenu = uint32(nums[2])
	d.Width = int32(nums[3])
	d.Height = int32(nums[4])
	d.ID = int32(nums[5])
	d.SubID = int32(nums[6])
	d.Kind = Kind(nums[7])
	return d, nil
}

func parseMask(field string) ([6]byte, error) {
	var mask [6]byte
	raw, err := hex.DecodeString(field)
	if err != nil || len(raw) != 6 {
		return mask, engerr.LegacyUnreadablef("mask must be 12 hex characters: %s", field)
	}
	copy(mask[:], raw)
	return mask, nil
}
