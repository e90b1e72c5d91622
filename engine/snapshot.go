package engine

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/tempograph/core"
	"github.com/hupe1980/tempograph/prop"
	"github.com/hupe1980/tempograph/temporal"
)

const snapshotVersion = 1

var snapshotMagic = [4]byte{'T', 'G', 'S', '1'}

// ErrInvalidSnapshot is returned when a snapshot stream fails validation.
var ErrInvalidSnapshot = errors.New("engine: invalid snapshot")

// Snapshot records are an event dump, not a memory dump: loading replays
// the events through the ordinary write path, so a snapshot taken with one
// internal encoding loads cleanly into a build with another.
type snapEntry struct {
	Time  int64
	Value prop.Value
}

type snapProp struct {
	Name    string
	Entries []snapEntry
}

type snapStatic struct {
	Name  string
	Value prop.Value
}

type snapVertex struct {
	ID     core.GlobalID
	Times  []int64
	Props  []snapProp
	Static []snapStatic
}

type snapEdge struct {
	Src    core.GlobalID
	Dst    core.GlobalID
	Times  []int64
	Props  []snapProp
	Static []snapStatic
}

type snapPayload struct {
	NShards  int
	Vertices []snapVertex
	Edges    []snapEdge
}

// SaveToWriter writes a compressed snapshot of the whole graph to w.
func (g *Graph) SaveToWriter(w io.Writer) error {
	if g.closed.Load() {
		return ErrClosed
	}

	payload := snapPayload{NShards: len(g.shards)}
	for _, s := range g.shards {
		vertices, edges := s.dump()
		payload.Vertices = append(payload.Vertices, vertices...)
		payload.Edges = append(payload.Edges, edges...)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(snapshotMagic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := bw.WriteByte(snapshotVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	zw, err := zstd.NewWriter(bw)
	if err != nil {
		return fmt.Errorf("create compressor: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(&payload); err != nil {
		zw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush compressor: %w", err)
	}
	return bw.Flush()
}

// SaveToFile writes a snapshot to path, replacing any existing file.
func (g *Graph) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.SaveToWriter(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFromReader reconstructs a graph from a snapshot stream. The shard
// count is taken from the snapshot; options apply to the new graph.
func LoadFromReader(r io.Reader, optFns ...Option) (*Graph, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidSnapshot, magic[:])
	}
	version, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, version)
	}

	zr, err := zstd.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("create decompressor: %w", err)
	}
	defer zr.Close()

	var payload snapPayload
	if err := gob.NewDecoder(zr).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if payload.NShards < 1 {
		return nil, fmt.Errorf("%w: shard count %d", ErrInvalidSnapshot, payload.NShards)
	}

	g := NewGraph(payload.NShards, optFns...)
	if err := g.replay(payload); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// LoadFromFile reconstructs a graph from a snapshot file.
func LoadFromFile(path string, optFns ...Option) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f, optFns...)
}

// replay feeds the dumped events back through the public write path.
// Registering a time twice is a no-op, so vertex times implied by edge
// events cause no drift.
func (g *Graph) replay(payload snapPayload) error {
	for _, v := range payload.Vertices {
		for _, t := range v.Times {
			if err := g.AddVertex(t, v.ID, nil); err != nil {
				return fmt.Errorf("replay vertex %d: %w", v.ID, err)
			}
		}
		for _, p := range v.Props {
			for _, e := range p.Entries {
				if err := g.AddVertex(e.Time, v.ID, prop.Map{p.Name: e.Value}); err != nil {
					return fmt.Errorf("replay vertex %d: %w", v.ID, err)
				}
			}
		}
		if len(v.Static) > 0 {
			m := make(prop.Map, len(v.Static))
			for _, sp := range v.Static {
				m[sp.Name] = sp.Value
			}
			if err := g.SetStaticVertexProps(v.ID, m); err != nil {
				return fmt.Errorf("replay vertex %d statics: %w", v.ID, err)
			}
		}
	}

	for _, e := range payload.Edges {
		for _, t := range e.Times {
			if err := g.AddEdge(t, e.Src, e.Dst, nil); err != nil {
				return fmt.Errorf("replay edge %d->%d: %w", e.Src, e.Dst, err)
			}
		}
		for _, p := range e.Props {
			for _, en := range p.Entries {
				if err := g.AddEdge(en.Time, e.Src, e.Dst, prop.Map{p.Name: en.Value}); err != nil {
					return fmt.Errorf("replay edge %d->%d: %w", e.Src, e.Dst, err)
				}
			}
		}
		if len(e.Static) > 0 {
			m := make(prop.Map, len(e.Static))
			for _, sp := range e.Static {
				m[sp.Name] = sp.Value
			}
			if err := g.SetStaticEdgeProps(e.Src, e.Dst, m); err != nil {
				return fmt.Errorf("replay edge %d->%d statics: %w", e.Src, e.Dst, err)
			}
		}
	}
	return nil
}

// dump extracts this shard's vertices and source-owned edges as replayable
// event records.
func (s *Shard) dump() ([]snapVertex, []snapEdge) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Invert the time index into per-position time lists.
	times := make([][]int64, len(s.vertices))
	s.timeIndex.Each(func(t int64, bits *roaring.Bitmap) bool {
		it := bits.Iterator()
		for it.HasNext() {
			pos := it.Next()
			times[pos] = append(times[pos], t)
		}
		return true
	})

	vertices := make([]snapVertex, 0, len(s.vertices))
	for pos, v := range s.vertices {
		vertices = append(vertices, snapVertex{
			ID:     v.global,
			Times:  times[pos],
			Props:  s.dumpProps(&v.props.temporal),
			Static: s.dumpStatics(&v.props.static),
		})
	}

	var edges []snapEdge
	for _, v := range s.vertices {
		src := v.global
		v.adj.Out.Each(func(pos core.LocalID, tl *temporal.TimeList) bool {
			edges = append(edges, s.dumpEdge(src, s.vertices[pos].global, tl))
			return true
		})
		v.adj.RemoteOut.Each(func(dst core.GlobalID, tl *temporal.TimeList) bool {
			edges = append(edges, s.dumpEdge(src, dst, tl))
			return true
		})
	}
	return vertices, edges
}

func (s *Shard) dumpEdge(src, dst core.GlobalID, tl *temporal.TimeList) snapEdge {
	e := snapEdge{Src: src, Dst: dst, Times: tl.In(core.MaxWindow)}
	if ep, ok := s.edgeProps[edgeKey{src: src, dst: dst}]; ok {
		e.Props = s.dumpProps(&ep.temporal)
		e.Static = s.dumpStatics(&ep.static)
	}
	return e
}

func (s *Shard) dumpProps(slots *temporal.Slots) []snapProp {
	var out []snapProp
	for _, id := range slots.IDs() {
		name, ok := s.registry.Name(id)
		if !ok {
			continue
		}
		cell, ok := slots.Get(id)
		if !ok {
			continue
		}
		history := cell.Range(core.MaxWindow)
		entries := make([]snapEntry, len(history))
		for i, tv := range history {
			entries[i] = snapEntry{Time: tv.Time, Value: tv.Value}
		}
		out = append(out, snapProp{Name: name, Entries: entries})
	}
	return out
}

func (s *Shard) dumpStatics(slots *temporal.StaticSlots) []snapStatic {
	var out []snapStatic
	for _, id := range slots.IDs() {
		name, ok := s.registry.Name(id)
		if !ok {
			continue
		}
		v, ok := slots.Get(id)
		if !ok {
			continue
		}
		out = append(out, snapStatic{Name: name, Value: v})
	}
	return out
}
