package cli

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/sculpt/action"
	"go.viam.com/sculpt/idmap"
	"go.viam.com/sculpt/spatialmath"
	"go.viam.com/sculpt/utils"
)

const positionEpsilon = 1e-9

// StatsAction prints how the faces of the mesh are spread over the octree.
func StatsAction(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	tree := s.mesh.Octree()

	type level struct {
		nodes, faces int
		width        float64
	}
	levels := map[int]*level{}
	var facesPerNode []float64
	nodes := tree.Nodes()
	for nodes.Next() {
		n := nodes.Node()
		l, ok := levels[n.Depth]
		if !ok {
			l = &level{width: n.Width}
			levels[n.Depth] = l
		}
		l.nodes++
		l.faces += n.NumFaces
		if n.NumFaces > 0 {
			facesPerNode = append(facesPerNode, float64(n.NumFaces))
		}
	}
	if err := nodes.Err(); err != nil {
		return err
	}

	var faceDepths []float64
	faces := tree.Faces()
	for faces.Next() {
		faceDepths = append(faceDepths, float64(faces.Depth()))
	}
	if err := faces.Err(); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "mesh: %d vertices, %d edges, %d faces\n",
		s.mesh.NumVertices(), s.mesh.NumEdges(), s.mesh.NumFaces())
	if root, err := tree.Root(); err == nil {
		fmt.Fprintf(c.App.Writer, "root: center %v, width %.4g, depth %d\n", root.Center, root.Width, root.Depth)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Depth", "Width", "Nodes", "Faces"})
	depths := lo.Keys(levels)
	sort.Ints(depths)
	for _, d := range depths {
		l := levels[d]
		t.AppendRow(table.Row{d, fmt.Sprintf("%.4g", l.width), l.nodes, l.faces})
	}
	fmt.Fprintln(c.App.Writer, t.Render())

	if len(facesPerNode) > 0 {
		mean, std := stat.MeanStdDev(facesPerNode, nil)
		fmt.Fprintf(c.App.Writer, "faces per occupied node: mean %.3f, std dev %.3f, median %.0f\n",
			mean, std, utils.Median(facesPerNode...))
		fmt.Fprintf(c.App.Writer, "face depth: mean %.3f\n", stat.Mean(faceDepths, nil))
	}
	return nil
}

// RaycastAction prints the face nearest along a ray.
func RaycastAction(c *cli.Context) error {
	origin, err := utils.ParseVector(c.String(raycastFlagOrigin))
	if err != nil {
		return errors.Wrap(err, "error parsing origin flag")
	}
	direction, err := utils.ParseVector(c.String(raycastFlagDirection))
	if err != nil {
		return errors.Wrap(err, "error parsing direction flag")
	}
	ray, err := spatialmath.NewRay(origin, direction)
	if err != nil {
		return err
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}

	hit, ok, err := s.mesh.IntersectRay(ray)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.App.Writer, "no hit")
		return nil
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Face", "Distance", "Position", "Normal"})
	t.AppendRow(table.Row{hit.Face.ID(), fmt.Sprintf("%.6f", hit.Distance), formatVector(hit.Position), formatVector(hit.Normal)})
	fmt.Fprintln(c.App.Writer, t.Render())
	return nil
}

// BrushAction selects the geometry inside a sphere. With a displacement it moves the selected vertices as one
// undoable edit, then undoes and redoes it to check the edit replays.
func BrushAction(c *cli.Context) error {
	center, err := utils.ParseVector(c.String(brushFlagCenter))
	if err != nil {
		return errors.Wrap(err, "error parsing center flag")
	}
	sphere, err := spatialmath.NewSphere(center, c.Float64(brushFlagRadius))
	if err != nil {
		return err
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}

	faces, err := s.mesh.IntersectSphereFaces(sphere)
	if err != nil {
		return err
	}
	vertices, err := s.mesh.IntersectSphereVertices(sphere)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "selected %d faces and %d vertices\n", len(faces), len(vertices))
	if c.Bool(brushFlagList) {
		ids := lo.Map(lo.Keys(vertices), func(id idmap.ID, _ int) string { return id.String() })
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintln(c.App.Writer, id)
		}
	}

	if c.String(brushFlagDelta) == "" {
		return nil
	}
	delta, err := utils.ParseVector(c.String(brushFlagDelta))
	if err != nil {
		return errors.Wrap(err, "error parsing delta flag")
	}
	before := map[idmap.ID]r3.Vector{}
	for id, v := range vertices {
		before[id] = v.Position()
	}

	u, err := action.DisplaceVertices(s.mesh, sphere, delta)
	if err != nil {
		return err
	}
	pushed, err := s.history.Push(u)
	if err != nil {
		return err
	}
	if !pushed {
		fmt.Fprintln(c.App.Writer, "nothing to displace")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "displaced %d vertices\n", u.Len())

	if err := s.history.Undo(s.mesh); err != nil {
		return err
	}
	restored := lo.EveryBy(lo.Entries(before), func(e lo.Entry[idmap.ID, r3.Vector]) bool {
		v, ok := s.mesh.Vertex(e.Key)
		return ok && samePosition(v.Position(), e.Value)
	})
	fmt.Fprintf(c.App.Writer, "undo restored positions: %v\n", restored)

	if err := s.history.Redo(s.mesh); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "redo applied, %d faces indexed\n", s.mesh.Octree().NumFaces())
	return nil
}

func samePosition(a, b r3.Vector) bool {
	return utils.Float64AlmostEqual(a.X, b.X, positionEpsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, positionEpsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, positionEpsilon)
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
