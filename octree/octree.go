// Package octree implements a loose octree that indexes the faces of a mutable mesh by location. The tree
// grows and shrinks as faces are inserted, deleted and realigned, and answers ray and sphere queries without
// visiting the whole mesh.
package octree

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sculpt/idmap"
	"go.viam.com/sculpt/spatialmath"
)

const (
	// DefaultRelativeMinFaceSize is the fraction of a node's width below which a face is pushed into a child.
	DefaultRelativeMinFaceSize = 0.1
	// DefaultLooseFactor scales a node's width to obtain the bound used by ray and sphere queries.
	DefaultLooseFactor = 2.0
	// DefaultMinNodeWidth is the smallest width a node may be created with.
	DefaultMinNodeWidth = 1e-6
)

var (
	// ErrDuplicateFace is returned when inserting a face that is already indexed.
	ErrDuplicateFace = errors.New("face is already indexed")
	// ErrFaceNotFound is returned when deleting or realigning a face that is not indexed.
	ErrFaceNotFound = errors.New("face is not indexed")
	// ErrEmptyTree is returned by structural queries on a tree without a root.
	ErrEmptyTree = errors.New("octree has no root")
	// ErrMalformedContainment is returned when a face fits in no node, which means its geometry is invalid.
	ErrMalformedContainment = errors.New("face does not fit in any octant")
	// ErrRootExists is returned when initializing the root of a tree that already has one.
	ErrRootExists = errors.New("octree already has a root")
	// ErrNodeNotFound is returned when looking up a node that no longer exists.
	ErrNodeNotFound = errors.New("octree node not found")
)

// Face is the view of a mesh face the octree needs. The octree keeps the face's node back reference current.
type Face interface {
	idmap.Element
	OctreeNode() NodeID
	SetOctreeNode(NodeID)
}

// Vertex is a mesh vertex as seen by sphere queries.
type Vertex interface {
	idmap.Element
	Position() r3.Vector
}

// Geometry resolves the shape of indexed faces. The mesh that owns the faces implements it.
type Geometry interface {
	Triangle(f Face) (*spatialmath.Triangle, error)
	FaceVertices(f Face) ([]Vertex, error)
}

// Intersection is the nearest face hit by a ray.
type Intersection struct {
	Position r3.Vector
	Distance float64
	Normal   r3.Vector
	Face     Face
	Mesh     Geometry
}

// Config holds the tunable constants of an octree.
type Config struct {
	// RelativeMinFaceSize: a face whose max extent is at most width * RelativeMinFaceSize moves into a child.
	RelativeMinFaceSize float64 `json:"relative_min_face_size"`
	// LooseFactor: ray and sphere queries test nodes against a cube of width * LooseFactor.
	LooseFactor float64 `json:"loose_factor"`
	// MinNodeWidth: nodes are never split into children narrower than this.
	MinNodeWidth float64 `json:"min_node_width"`
}

// MinLooseFactor returns the smallest loose factor for which queries still see every face stored at a node.
// Below the root a face is at most 2*relativeMinFaceSize*width wide and its corners lie within two thirds of
// that from its centroid, which itself lies inside the node.
func MinLooseFactor(relativeMinFaceSize float64) float64 {
	return 1 + 8*relativeMinFaceSize/3
}

// DefaultConfig returns the configuration used by the editor.
func DefaultConfig() Config {
	return Config{
		RelativeMinFaceSize: DefaultRelativeMinFaceSize,
		LooseFactor:         DefaultLooseFactor,
		MinNodeWidth:        DefaultMinNodeWidth,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate() error {
	var err error
	if cfg.RelativeMinFaceSize <= 0 || cfg.RelativeMinFaceSize > 0.5 {
		err = multierr.Append(err, errors.Errorf("relative_min_face_size must be in (0, 0.5], got %v", cfg.RelativeMinFaceSize))
	} else if minLoose := MinLooseFactor(cfg.RelativeMinFaceSize); cfg.LooseFactor < minLoose {
		err = multierr.Append(err, errors.Errorf("loose_factor must be at least %.4f for relative_min_face_size %v, got %v",
			minLoose, cfg.RelativeMinFaceSize, cfg.LooseFactor))
	}
	if cfg.MinNodeWidth <= 0 {
		err = multierr.Append(err, errors.Errorf("min_node_width must be positive, got %v", cfg.MinNodeWidth))
	}
	return err
}
