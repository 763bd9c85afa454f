// Package render provides output formats for diagrams.
//
// # Formats
//
// A diagram can be exported as a JSON snapshot, as Graphviz DOT source, or
// as a rendered image (SVG, PNG, PDF). [ParseFormat] validates a format name
// and [ContentType] gives its MIME type for HTTP responses.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws the diagram with Graphviz, keeping every
// node at its canvas position.
//
// [nodelink]: github.com/matzehuels/archsketch/pkg/render/nodelink
package render
