package ocrbox

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	reHOCRBBox = regexp.MustCompile(`bbox\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)`)
	reHOCRConf = regexp.MustCompile(`x_wconf\s+(\d+)`)
)

// parseHOCR walks the neural-mode engine's hOCR document for per-character
// boxes, emitted under the class "ocrx_cinfo" (tesseract's character-level
// hOCR span), mirroring how the ocrx_word walker in
// other_examples/82bdfd30_platinummonkey-rmapi__rmconvert-ocr_pdf.go.go
// pulls word boxes out of the same bbox/x_wconf title-attribute syntax.
func parseHOCR(doc []byte) []RawBox {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil
	}

	var boxes []RawBox
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			cls := hocrAttr(n, "class")
			if strings.Contains(cls, "ocrx_cinfo") {
				title := hocrAttr(n, "title")
				if m := reHOCRBBox.FindStringSubmatch(title); m != nil {
					x1, _ := strconv.Atoi(m[1])
					y1, _ := strconv.Atoi(m[2])
					x2, _ := strconv.Atoi(m[3])
					y2, _ := strconv.Atoi(m[4])

					conf := 0.0
					if cm := reHOCRConf.FindStringSubmatch(title); cm != nil {
						c, _ := strconv.Atoi(cm[1])
						conf = float64(c)
					}

					txt := hocrTextContent(n)
					if txt != "" {
						boxes = append(boxes, RawBox{
							Text: txt, X1: x1, Y1: y1, X2: x2, Y2: y2,
							Confidence: conf,
						})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return boxes
}

func hocrAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hocrTextContent(n *html.Node) string {
	var buf bytes.Buffer
	var f func(*html.Node)
	f = func(x *html.Node) {
		if x.Type == html.TextNode {
			buf.WriteString(x.Data)
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return buf.String()
}
