// Package nodelink renders diagrams as node-link drawings with Graphviz.
//
// Nodes keep the positions they have on the canvas: [ToDOT] pins each node
// with pos="x,-y!" and the neato engine draws edges around them, so the
// exported image matches what the user arranged.
//
// # Usage
//
//	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// A [Renderer] produces any supported format and caches rendered images by
// diagram content.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
