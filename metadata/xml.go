package metadata

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/wudi/docview/annotations"
	"github.com/wudi/docview/area"
)

type xmlDocumentInfo struct {
	XMLName     xml.Name       `xml:"documentInfo"`
	URL         string         `xml:"url,attr"`
	PageList    xmlPageList    `xml:"pageList"`
	GeneralInfo xmlGeneralInfo `xml:"generalInfo"`
}

type xmlPageList struct {
	Pages []xmlPage `xml:"page"`
}

type xmlPage struct {
	Number      int             `xml:"number,attr"`
	Bookmark    *xmlEmpty       `xml:"bookmark"`
	Annotations []xmlAnnotation `xml:"annotationList>annotation"`
}

type xmlEmpty struct{}

type xmlAnnotation struct {
	Name     string      `xml:"name,attr"`
	Type     string      `xml:"type,attr"`
	Author   string      `xml:"author,attr,omitempty"`
	Contents string      `xml:"contents,attr,omitempty"`
	Color    string      `xml:"color,attr,omitempty"`
	Flags    int         `xml:"flags,attr,omitempty"`
	Created  string      `xml:"created,attr,omitempty"`
	Modified string      `xml:"modified,attr,omitempty"`
	External bool        `xml:"external,attr,omitempty"`
	Boundary xmlBoundary `xml:"boundary"`
}

type xmlBoundary struct {
	L float64 `xml:"l,attr"`
	T float64 `xml:"t,attr"`
	R float64 `xml:"r,attr"`
	B float64 `xml:"b,attr"`
}

type xmlGeneralInfo struct {
	Rotation *int        `xml:"rotation,omitempty"`
	History  *xmlHistory `xml:"history"`
	Views    *xmlViews   `xml:"views"`
}

type xmlHistory struct {
	Old     []xmlHistoryEntry `xml:"oldPage"`
	Current *xmlHistoryEntry  `xml:"current"`
}

type xmlHistoryEntry struct {
	Viewport string `xml:"viewport,attr"`
}

type xmlViews struct {
	Views []xmlView `xml:"view"`
}

type xmlView struct {
	Name string   `xml:"name,attr"`
	Zoom *xmlZoom `xml:"zoom"`
}

type xmlZoom struct {
	Value float64 `xml:"value,attr"`
	Mode  int     `xml:"mode,attr"`
}

const timeLayout = time.RFC3339

func formatColor(c area.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func parseColor(s string) area.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return area.Color{}
	}
	return area.Color{R: r, G: g, B: b}
}

func annotationToXML(a annotations.Annotation) xmlAnnotation {
	x := xmlAnnotation{
		Name:     a.ID,
		Type:     a.Type.String(),
		Author:   a.Author,
		Contents: a.Contents,
		Flags:    int(a.Flags),
		External: a.External,
		Boundary: xmlBoundary{
			L: a.Boundary.Left,
			T: a.Boundary.Top,
			R: a.Boundary.Right,
			B: a.Boundary.Bottom,
		},
	}
	if (a.Color != area.Color{}) {
		x.Color = formatColor(a.Color)
	}
	if !a.Created.IsZero() {
		x.Created = a.Created.Format(timeLayout)
	}
	if !a.Modified.IsZero() {
		x.Modified = a.Modified.Format(timeLayout)
	}
	return x
}

func annotationFromXML(x xmlAnnotation) annotations.Annotation {
	a := annotations.Annotation{
		ID:       x.Name,
		Type:     annotations.ParseType(x.Type),
		Author:   x.Author,
		Contents: x.Contents,
		Flags:    annotations.Flag(x.Flags),
		External: x.External,
		Boundary: area.NormalizedRect{
			Left:   x.Boundary.L,
			Top:    x.Boundary.T,
			Right:  x.Boundary.R,
			Bottom: x.Boundary.B,
		},
	}
	if x.Color != "" {
		a.Color = parseColor(x.Color)
	}
	if x.Created != "" {
		if t, err := time.Parse(timeLayout, x.Created); err == nil {
			a.Created = t
		}
	}
	if x.Modified != "" {
		if t, err := time.Parse(timeLayout, x.Modified); err == nil {
			a.Modified = t
		}
	}
	return a
}

// Serialize encodes the document info as sidecar XML.
func Serialize(info DocumentInfo) ([]byte, error) {
	x := xmlDocumentInfo{URL: info.URL}
	for _, p := range info.Pages {
		if p.IsEmpty() {
			continue
		}
		xp := xmlPage{Number: p.Number}
		if p.Bookmarked {
			xp.Bookmark = &xmlEmpty{}
		}
		for _, a := range p.Annotations {
			xp.Annotations = append(xp.Annotations, annotationToXML(a))
		}
		x.PageList.Pages = append(x.PageList.Pages, xp)
	}
	if info.Rotation != 0 {
		rot := info.Rotation
		x.GeneralInfo.Rotation = &rot
	}
	if len(info.History) > 0 {
		h := &xmlHistory{}
		for i, vp := range info.History {
			entry := xmlHistoryEntry{Viewport: vp}
			if i == len(info.History)-1 {
				h.Current = &entry
			} else {
				h.Old = append(h.Old, entry)
			}
		}
		x.GeneralInfo.History = h
	}
	if len(info.Views) > 0 {
		vs := &xmlViews{}
		for _, v := range info.Views {
			zoom := xmlZoom{Value: v.Zoom, Mode: v.ZoomMode}
			vs.Views = append(vs.Views, xmlView{Name: v.Name, Zoom: &zoom})
		}
		x.GeneralInfo.Views = vs
	}
	body, err := xml.MarshalIndent(x, "", " ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Parse decodes sidecar XML. A malformed sidecar yields an error; callers
// treat that as "no metadata".
func Parse(data []byte) (DocumentInfo, error) {
	var x xmlDocumentInfo
	if err := xml.Unmarshal(data, &x); err != nil {
		return DocumentInfo{}, err
	}
	info := DocumentInfo{URL: x.URL}
	for _, xp := range x.PageList.Pages {
		p := PageInfo{Number: xp.Number, Bookmarked: xp.Bookmark != nil}
		for _, xa := range xp.Annotations {
			p.Annotations = append(p.Annotations, annotationFromXML(xa))
		}
		info.Pages = append(info.Pages, p)
	}
	if x.GeneralInfo.Rotation != nil {
		info.Rotation = ((*x.GeneralInfo.Rotation % 4) + 4) % 4
	}
	if h := x.GeneralInfo.History; h != nil {
		for _, e := range h.Old {
			info.History = append(info.History, e.Viewport)
		}
		if h.Current != nil {
			info.History = append(info.History, h.Current.Viewport)
		}
	}
	if vs := x.GeneralInfo.Views; vs != nil {
		for _, xv := range vs.Views {
			v := ViewInfo{Name: xv.Name}
			if xv.Zoom != nil {
				v.Zoom = xv.Zoom.Value
				v.ZoomMode = xv.Zoom.Mode
			}
			info.Views = append(info.Views, v)
		}
	}
	return info, nil
}
