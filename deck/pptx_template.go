package deck

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// The GoPPT reader exposes the slide surface only, so master and layout
// parts are read straight from the package zip: layout names feed layout
// selection, backgrounds and master/layout pictures feed asset harvesting.

type partSlide struct {
	CSld struct {
		Name string `xml:"name,attr"`
		Bg   struct {
			BgPr struct {
				SolidFill struct {
					SrgbClr struct {
						Val string `xml:"val,attr"`
					} `xml:"srgbClr"`
				} `xml:"solidFill"`
			} `xml:"bgPr"`
		} `xml:"bg"`
		SpTree struct {
			Pics []partPic `xml:"pic"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

type partPic struct {
	NvPicPr struct {
		CNvPr struct {
			Name string `xml:"name,attr"`
		} `xml:"cNvPr"`
	} `xml:"nvPicPr"`
	BlipFill struct {
		Blip struct {
			Embed string `xml:"embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
	SpPr struct {
		Xfrm struct {
			Off struct {
				X int64 `xml:"x,attr"`
				Y int64 `xml:"y,attr"`
			} `xml:"off"`
			Ext struct {
				Cx int64 `xml:"cx,attr"`
				Cy int64 `xml:"cy,attr"`
			} `xml:"ext"`
		} `xml:"xfrm"`
	} `xml:"spPr"`
}

type partRels struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

var partNumberRe = regexp.MustCompile(`(\d+)\.xml$`)

// scanTemplateParts fills d.Layouts and d.MasterShapes from the package at
// path. Slides are untouched. A missing or unreadable part skips that part
// only; an unreadable zip is the single error case.
func scanTemplateParts(pptxPath string, d *Deck) error {
	zr, err := zip.OpenReader(pptxPath)
	if err != nil {
		return fmt.Errorf("failed to open package %s: %w", pptxPath, err)
	}
	defer zr.Close()

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	var masters, layouts []string
	for name := range parts {
		switch {
		case strings.HasPrefix(name, "ppt/slideMasters/slideMaster") && strings.HasSuffix(name, ".xml"):
			masters = append(masters, name)
		case strings.HasPrefix(name, "ppt/slideLayouts/slideLayout") && strings.HasSuffix(name, ".xml"):
			layouts = append(layouts, name)
		}
	}
	sortByPartNumber(masters)
	sortByPartNumber(layouts)

	for _, name := range masters {
		part, err := readSlidePart(parts, name)
		if err != nil {
			continue
		}
		d.MasterShapes = append(d.MasterShapes, partImages(parts, name, part)...)
	}

	d.Layouts = nil
	for _, name := range layouts {
		part, err := readSlidePart(parts, name)
		if err != nil {
			continue
		}
		l := Layout{Name: part.CSld.Name, Background: layoutBackground(part)}
		if l.Name == "" {
			l.Name = strings.TrimSuffix(path.Base(name), ".xml")
		}
		l.Shapes = partImages(parts, name, part)
		d.Layouts = append(d.Layouts, l)
	}
	if len(d.Layouts) == 0 {
		d.Layouts = New().Layouts
	}
	return nil
}

func sortByPartNumber(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return partNumber(names[i]) < partNumber(names[j])
	})
}

func partNumber(name string) int {
	m := partNumberRe.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func readSlidePart(parts map[string]*zip.File, name string) (*partSlide, error) {
	data, err := readPart(parts, name)
	if err != nil {
		return nil, err
	}
	var part partSlide
	if err := xml.Unmarshal(data, &part); err != nil {
		return nil, err
	}
	return &part, nil
}

func readPart(parts map[string]*zip.File, name string) ([]byte, error) {
	f, ok := parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not in package", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func layoutBackground(part *partSlide) string {
	if v := part.CSld.Bg.BgPr.SolidFill.SrgbClr.Val; v != "" {
		return "solid:" + v
	}
	return ""
}

// partImages resolves every picture of a master or layout part to an image
// shape: embed id -> rels target -> media bytes, frame from the picture
// transform. Unresolvable pictures are skipped.
func partImages(parts map[string]*zip.File, partName string, part *partSlide) []*Shape {
	rels := readRels(parts, partName)
	var shapes []*Shape
	for _, pic := range part.CSld.SpTree.Pics {
		target, ok := rels[pic.BlipFill.Blip.Embed]
		if !ok {
			continue
		}
		mediaName := resolveTarget(partName, target)
		data, err := readPart(parts, mediaName)
		if err != nil || len(data) == 0 {
			continue
		}
		shapes = append(shapes, &Shape{
			Name: pic.NvPicPr.CNvPr.Name,
			Frame: Frame{
				Left:   pic.SpPr.Xfrm.Off.X,
				Top:    pic.SpPr.Xfrm.Off.Y,
				Width:  pic.SpPr.Xfrm.Ext.Cx,
				Height: pic.SpPr.Xfrm.Ext.Cy,
			},
			Image: &ImageContent{
				Name: path.Base(mediaName),
				Mime: mediaMime(mediaName),
				Data: data,
			},
		})
	}
	return shapes
}

func readRels(parts map[string]*zip.File, partName string) map[string]string {
	relsName := path.Join(path.Dir(partName), "_rels", path.Base(partName)+".rels")
	data, err := readPart(parts, relsName)
	if err != nil {
		return nil
	}
	var rels partRels
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil
	}
	out := make(map[string]string, len(rels.Rels))
	for _, r := range rels.Rels {
		if strings.HasSuffix(r.Type, "/image") {
			out[r.ID] = r.Target
		}
	}
	return out
}

// resolveTarget resolves a relationship target like "../media/image1.png"
// against the directory of the referencing part.
func resolveTarget(partName, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(partName), target))
}

func mediaMime(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "image/png"
	}
}
