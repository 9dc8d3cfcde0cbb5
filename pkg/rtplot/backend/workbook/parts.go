package workbook

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// readZipFile returns the content of a package part, or nil when it is absent.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

// readElementText collects the character data up to the end of the current element.
func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// resolveRelativePath turns a relationship target into a package part name.
func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return baseDir + "/" + target
}

// relsPath returns the relationships part that belongs to a part.
func relsPath(part string) string {
	dir, file := "", part
	if i := strings.LastIndex(part, "/"); i >= 0 {
		dir, file = part[:i+1], part[i+1:]
	}
	return dir + "_rels/" + file + ".rels"
}

// relationship is one entry of a .rels part.
type relationship struct {
	id, target, relType string
}

// parseRelationships lists the entries of a .rels part in document order.
func parseRelationships(data []byte) []relationship {
	var result []relationship
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rel relationship
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rel.id = attr.Value
				case "Target":
					rel.target = attr.Value
				case "Type":
					rel.relType = attr.Value
				}
			}
			result = append(result, rel)
		}
	}

	return result
}

// workbookSheet is a sheet entry of workbook.xml.
type workbookSheet struct {
	name, rID string
}

// parseWorkbookSheets lists the sheets of workbook.xml in tab order.
func parseWorkbookSheets(data []byte) []workbookSheet {
	var result []workbookSheet
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var s workbookSheet
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					s.name = attr.Value
				case "id":
					s.rID = attr.Value
				}
			}
			if s.name != "" && s.rID != "" {
				result = append(result, s)
			}
		}
	}

	return result
}

// findRelationship returns the target of the first relationship of the given
// kind (e.g. "drawing", "chart"), or "" when there is none.
func findRelationship(rels []relationship, kind string) string {
	for _, rel := range rels {
		if strings.HasSuffix(strings.ToLower(rel.relType), "/"+kind) {
			return rel.target
		}
	}
	return ""
}
