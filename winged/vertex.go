package winged

import (
	"github.com/golang/geo/r3"

	"go.viam.com/sculpt/idmap"
)

// Vertex is a mesh vertex. It refers to one of its incident edges.
type Vertex struct {
	id       idmap.ID
	position r3.Vector
	edge     *Edge
}

// ID returns the vertex's ID.
func (v *Vertex) ID() idmap.ID {
	return v.id
}

// Position returns the location of the vertex.
func (v *Vertex) Position() r3.Vector {
	return v.position
}

// Edge returns an incident edge, if any.
func (v *Vertex) Edge() *Edge {
	return v.edge
}

// SetEdge sets the incident edge the vertex refers to.
func (v *Vertex) SetEdge(e *Edge) {
	v.edge = e
}

// Edges returns the fan of edges around v that holds v's own edge, in order. On an open mesh the walk starts at
// the boundary. Edges across a bowtie corner or on sibling edges lie outside the fan; Mesh.VertexEdges
// returns those too.
func (v *Vertex) Edges() ([]*Edge, error) {
	start := v.edge
	if start == nil {
		return nil, nil
	}
	edges := []*Edge{}
	for e := start; e != nil; {
		if !e.IsAdjacent(v) {
			return nil, malformedVertexError(v, e)
		}
		edges = append(edges, e)
		e = e.nextAroundVertex(v)
		if e == start {
			return edges, nil
		}
		if len(edges) > maxLoopLength {
			return nil, malformedVertexError(v, e)
		}
	}
	// open fan: collect what lies behind start as well
	var behind []*Edge
	for e := start.previousAroundVertex(v); e != nil && e != start; e = e.previousAroundVertex(v) {
		if !e.IsAdjacent(v) || len(behind)+len(edges) > maxLoopLength {
			return nil, malformedVertexError(v, e)
		}
		behind = append(behind, e)
	}
	reversed := make([]*Edge, 0, len(behind)+len(edges))
	for i := len(behind) - 1; i >= 0; i-- {
		reversed = append(reversed, behind[i])
	}
	return append(reversed, edges...), nil
}

// Faces returns the faces of the fan around v without repetition.
func (v *Vertex) Faces() ([]*Face, error) {
	edges, err := v.Edges()
	if err != nil {
		return nil, err
	}
	faces := []*Face{}
	seen := map[*Face]bool{}
	for _, e := range edges {
		for _, f := range []*Face{e.leftFace, e.rightFace} {
			if f != nil && !seen[f] {
				seen[f] = true
				faces = append(faces, f)
			}
		}
	}
	return faces, nil
}
