package entities

// MetadataSource tells how a metadata record was produced
type MetadataSource string

const (
	MetadataSourceJSON        MetadataSource = "json"
	MetadataSourceImage       MetadataSource = "image"
	MetadataSourcePlaceholder MetadataSource = "placeholder"
)

// Metadata is the display record resolved from a token URI
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	// ImageURL is Image rewritten through the IPFS gateway for display.
	ImageURL string         `json:"imageUrl"`
	Source   MetadataSource `json:"source"`
}

// Token is one collectible owned by the scanned account
type Token struct {
	TokenID  string   `json:"tokenId"`
	Owner    string   `json:"owner"`
	TokenURI string   `json:"tokenUri"`
	Metadata Metadata `json:"metadata"`
}

// Listing is an active sale offer observed on the marketplace contract.
// Price is the decimal ether amount, PriceWei the base-unit amount.
type Listing struct {
	ID          string   `json:"id"`
	Seller      string   `json:"seller"`
	TokenID     string   `json:"tokenId"`
	Price       string   `json:"price"`
	PriceWei    string   `json:"priceWei"`
	NFTContract string   `json:"nftContract"`
	TokenURI    string   `json:"tokenUri"`
	Metadata    Metadata `json:"metadata"`
}
