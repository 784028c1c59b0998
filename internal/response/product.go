package response

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrChebur/Copernicus-OData-wrapper/internal/edm"
)

// ProductPage is one page of a Products collection.
type ProductPage struct {
	Context  string    `json:"@odata.context,omitempty"`
	Count    *int64    `json:"@odata.count,omitempty"`
	NextLink string    `json:"@odata.nextLink,omitempty"`
	Value    []Product `json:"value"`
}

// HasNext reports whether the service announced another page.
func (p *ProductPage) HasNext() bool {
	return p != nil && p.NextLink != ""
}

// Product is a catalogue entry. Attributes and Assets are only filled when the
// request expanded them.
type Product struct {
	MediaContentType string             `json:"@odata.mediaContentType,omitempty"`
	ID               uuid.UUID          `json:"Id"`
	Name             string             `json:"Name"`
	ContentType      string             `json:"ContentType,omitempty"`
	ContentLength    int64              `json:"ContentLength"`
	OriginDate       edm.DateTimeOffset `json:"OriginDate"`
	PublicationDate  edm.DateTimeOffset `json:"PublicationDate"`
	ModificationDate edm.DateTimeOffset `json:"ModificationDate"`
	Online           bool               `json:"Online"`
	EvictionDate     edm.DateTimeOffset `json:"EvictionDate"`
	S3Path           string             `json:"S3Path,omitempty"`
	Checksum         []Checksum         `json:"Checksum,omitempty"`
	ContentDate      ContentDate        `json:"ContentDate"`
	Footprint        string             `json:"Footprint,omitempty"`
	GeoFootprint     json.RawMessage    `json:"GeoFootprint,omitempty"`
	Attributes       []ProductAttribute `json:"Attributes,omitempty"`
	Assets           []Asset            `json:"Assets,omitempty"`
}

// ContentDate is the acquisition interval of a product.
type ContentDate struct {
	Start edm.DateTimeOffset `json:"Start"`
	End   edm.DateTimeOffset `json:"End"`
}

// Checksum is one digest of the product archive.
type Checksum struct {
	Value        string             `json:"Value"`
	Algorithm    string             `json:"Algorithm"`
	ChecksumDate edm.DateTimeOffset `json:"ChecksumDate"`
}

// ProductAttribute is one expanded entry of a product's Attributes collection.
// Value is decoded as the EDM kind named by ValueType. It is nil when ValueType names
// no known kind, in which case the payload is kept verbatim and written back as is.
type ProductAttribute struct {
	Type      string
	Name      string
	Value     edm.Type
	ValueType string

	raw json.RawMessage
}

type productAttributeJSON struct {
	Type      string          `json:"@odata.type,omitempty"`
	Name      string          `json:"Name"`
	Value     json.RawMessage `json:"Value"`
	ValueType string          `json:"ValueType"`
}

// Kind returns the EDM kind named by ValueType.
func (a ProductAttribute) Kind() (edm.Kind, bool) {
	return edm.ParseKind(a.ValueType)
}

func (a *ProductAttribute) UnmarshalJSON(data []byte) error {
	var aux productAttributeJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = ProductAttribute{Type: aux.Type, Name: aux.Name, ValueType: aux.ValueType}

	kind, ok := edm.ParseKind(aux.ValueType)
	if !ok {
		a.raw = aux.Value
		return nil
	}
	v, err := edm.Decode(kind, aux.Value)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", aux.Name, err)
	}
	a.Value = v
	return nil
}

func (a ProductAttribute) MarshalJSON() ([]byte, error) {
	aux := productAttributeJSON{Type: a.Type, Name: a.Name, ValueType: a.ValueType, Value: a.raw}
	if a.Value != nil {
		b, err := a.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		aux.Value = b
	}
	if len(aux.Value) == 0 {
		aux.Value = json.RawMessage("null")
	}
	return json.Marshal(aux)
}

// Asset is one expanded entry of a product's Assets collection, e.g. a quicklook.
type Asset struct {
	Type         string `json:"Type"`
	ID           string `json:"Id"`
	DownloadLink string `json:"DownloadLink"`
	S3Path       string `json:"S3Path,omitempty"`
}

// NodeListing is the body of a Nodes request.
type NodeListing struct {
	Result []Node `json:"result"`
}

// Node is one file or directory inside a product archive.
type Node struct {
	ID             string   `json:"Id"`
	Name           string   `json:"Name"`
	ContentLength  int64    `json:"ContentLength"`
	ChildrenNumber int      `json:"ChildrenNumber"`
	Nodes          NodeLink `json:"Nodes"`
}

// NodeLink points at the children of a node.
type NodeLink struct {
	URI string `json:"uri"`
}

// IsDir reports whether the node has children.
func (n Node) IsDir() bool {
	return n.ChildrenNumber > 0
}

// DecodePage decodes a Products collection body.
func DecodePage(body []byte) (*ProductPage, error) {
	var page ProductPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode product page: %w", err)
	}
	return &page, nil
}

// DecodeNodes decodes a Nodes body.
func DecodeNodes(body []byte) (*NodeListing, error) {
	var nodes NodeListing
	if err := json.Unmarshal(body, &nodes); err != nil {
		return nil, fmt.Errorf("decode node listing: %w", err)
	}
	return &nodes, nil
}
