package clients

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hakeemmukif/distraction-shop-v2/models"
)

// PaymentsClient talks to the hosted payments provider that owns the product
// catalog, prices and checkout sessions. Product attributes the provider has
// no first-class field for (sizes, per-size stock, images, category) live in
// product metadata under size_N / size_N_stock / image_N / unit_label keys.
type PaymentsClient struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	successURL    string
	cancelURL     string
	httpClient    *http.Client
}

func NewPaymentsClient(baseURL, apiKey, webhookSecret, successURL, cancelURL string) *PaymentsClient {
	return &PaymentsClient{
		baseURL:       baseURL,
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ErrNotFound is returned when the provider reports a missing resource.
var ErrNotFound = fmt.Errorf("resource not found")

type providerProduct struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Active       bool              `json:"active"`
	DefaultPrice string            `json:"default_price"`
	Metadata     map[string]string `json:"metadata"`
}

type providerProductList struct {
	Data []providerProduct `json:"data"`
}

type providerPrice struct {
	ID         string `json:"id"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

type providerSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// LineItem is one purchasable entry of a checkout session.
type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Quantity   int    `json:"quantity"`
}

type createSessionRequest struct {
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	CustomerEmail string            `json:"customer_email"`
	LineItems     []LineItem        `json:"line_items"`
	Metadata      map[string]string `json:"metadata"`
}

type createProductRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Active      *bool             `json:"active,omitempty"`
	UnitAmount  int64             `json:"unit_amount,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ListProducts fetches active products and filters them to one storefront
// category.
func (c *PaymentsClient) ListProducts(category string, limit int) ([]models.Product, error) {
	q := url.Values{}
	q.Set("active", "true")
	q.Set("limit", fmt.Sprintf("%d", limit))

	var list providerProductList
	if err := c.do(http.MethodGet, "/v1/products?"+q.Encode(), nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]models.Product, 0, len(list.Data))
	for _, p := range list.Data {
		if p.Metadata["unit_label"] != category {
			continue
		}
		product, err := c.toProduct(p)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// GetProduct fetches one product by provider id.
func (c *PaymentsClient) GetProduct(id string) (models.Product, error) {
	var p providerProduct
	if err := c.do(http.MethodGet, "/v1/products/"+id, nil, &p); err != nil {
		return models.Product{}, err
	}
	if !p.Active {
		return models.Product{}, ErrNotFound
	}
	return c.toProduct(p)
}

// CreateProduct registers a new catalog product with the provider.
func (c *PaymentsClient) CreateProduct(req models.CreateProductRequest) (models.Product, error) {
	currency := req.Currency
	if currency == "" {
		currency = "myr"
	}
	body := createProductRequest{
		Name:        req.Name,
		Description: req.Description,
		UnitAmount:  req.Price,
		Currency:    currency,
		Metadata:    buildMetadata(req.Category, req.Images, req.Sizes),
	}
	var p providerProduct
	if err := c.do(http.MethodPost, "/v1/products", body, &p); err != nil {
		return models.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return c.toProduct(p)
}

// UpdateProduct patches name, description, activity and metadata-backed
// attributes of an existing product.
func (c *PaymentsClient) UpdateProduct(id string, req models.UpdateProductRequest) (models.Product, error) {
	body := createProductRequest{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	}
	if req.Category != "" || len(req.Images) > 0 || len(req.Sizes) > 0 {
		body.Metadata = buildMetadata(req.Category, req.Images, req.Sizes)
	}
	var p providerProduct
	if err := c.do(http.MethodPost, "/v1/products/"+id, body, &p); err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return c.toProduct(p)
}

// DeactivateProduct hides a product from the storefront. The provider keeps
// it for order history, so delete maps to active=false.
func (c *PaymentsClient) DeactivateProduct(id string) error {
	inactive := false
	body := createProductRequest{Active: &inactive}
	var p providerProduct
	if err := c.do(http.MethodPost, "/v1/products/"+id, body, &p); err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}
	return nil
}

// CreateCheckoutSession opens a hosted payment page for the cart contents.
// itemsMetadata travels with the session and comes back on the completion
// webhook, where it becomes the recorded order's line items.
func (c *PaymentsClient) CreateCheckoutSession(items []LineItem, customerEmail, itemsMetadata string) (models.CheckoutResponse, error) {
	body := createSessionRequest{
		SuccessURL:    c.successURL,
		CancelURL:     c.cancelURL,
		CustomerEmail: customerEmail,
		LineItems:     items,
		Metadata: map[string]string{
			"items":          itemsMetadata,
			"customer_email": customerEmail,
		},
	}
	var session providerSession
	if err := c.do(http.MethodPost, "/v1/checkout/sessions", body, &session); err != nil {
		return models.CheckoutResponse{}, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return models.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

// DecrementStock reduces the stock metadata of one product size after a
// completed sale. Products sold without sizes carry no stock metadata and
// are skipped.
func (c *PaymentsClient) DecrementStock(productID, size string, quantity int) error {
	var p providerProduct
	if err := c.do(http.MethodGet, "/v1/products/"+productID, nil, &p); err != nil {
		return err
	}

	stockKey := ""
	for i := 1; ; i++ {
		key := fmt.Sprintf("size_%d", i)
		label, ok := p.Metadata[key]
		if !ok {
			break
		}
		if label == size {
			stockKey = key + "_stock"
			break
		}
	}
	if stockKey == "" {
		return nil
	}

	current := atoi(p.Metadata[stockKey])
	next := current - quantity
	if next < 0 {
		next = 0
	}
	p.Metadata[stockKey] = fmt.Sprintf("%d", next)

	body := createProductRequest{Metadata: p.Metadata}
	var updated providerProduct
	if err := c.do(http.MethodPost, "/v1/products/"+productID, body, &updated); err != nil {
		return fmt.Errorf("failed to update stock for %s: %w", productID, err)
	}
	return nil
}

// VerifyWebhookSignature checks the hex HMAC-SHA256 signature the provider
// sends over the raw webhook body.
func (c *PaymentsClient) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *PaymentsClient) toProduct(p providerProduct) (models.Product, error) {
	price := int64(0)
	currency := "myr"
	if p.DefaultPrice != "" {
		var pr providerPrice
		if err := c.do(http.MethodGet, "/v1/prices/"+p.DefaultPrice, nil, &pr); err != nil {
			return models.Product{}, fmt.Errorf("failed to fetch price for %s: %w", p.ID, err)
		}
		price = pr.UnitAmount
		if pr.Currency != "" {
			currency = pr.Currency
		}
	}

	var images []string
	for i := 1; i <= 3; i++ {
		if img, ok := p.Metadata[fmt.Sprintf("image_%d", i)]; ok && img != "" {
			images = append(images, img)
		}
	}

	var sizes []models.ProductSize
	for i := 1; ; i++ {
		label, ok := p.Metadata[fmt.Sprintf("size_%d", i)]
		if !ok {
			break
		}
		stock := atoi(p.Metadata[fmt.Sprintf("size_%d_stock", i)])
		sizes = append(sizes, models.ProductSize{
			Label:     label,
			Stock:     stock,
			Available: stock > 0,
		})
	}

	return models.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		PriceID:     p.DefaultPrice,
		Currency:    currency,
		Images:      images,
		Sizes:       sizes,
		Category:    p.Metadata["unit_label"],
	}, nil
}

func (c *PaymentsClient) do(method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call payments provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
	}
}

func buildMetadata(category string, images []string, sizes []models.ProductSize) map[string]string {
	metadata := make(map[string]string)
	if category != "" {
		metadata["unit_label"] = category
	}
	for i, img := range images {
		metadata[fmt.Sprintf("image_%d", i+1)] = img
	}
	for i, size := range sizes {
		metadata[fmt.Sprintf("size_%d", i+1)] = size.Label
		metadata[fmt.Sprintf("size_%d_stock", i+1)] = fmt.Sprintf("%d", size.Stock)
	}
	return metadata
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
