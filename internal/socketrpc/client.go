package socketrpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tinytelemetry/variantscope/internal/model"
)

// Client implements model.VariantQuerier over a Unix domain socket using JSON-RPC 2.0.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	nextID  int
	scanner *bufio.Scanner
	encoder *json.Encoder
}

var _ model.VariantQuerier = (*Client)(nil)

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, scannerInitBufSize), scannerMaxTokenSize)
	return &Client{
		conn:    conn,
		scanner: scanner,
		encoder: json.NewEncoder(conn),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(method string, params interface{}, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	c.conn.SetDeadline(time.Now().Add(30 * time.Second))
	defer c.conn.SetDeadline(time.Time{})

	if err := c.encoder.Encode(req); err != nil {
		return fmt.Errorf("socketrpc: send: %w", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return fmt.Errorf("socketrpc: read: %w", err)
		}
		return fmt.Errorf("socketrpc: connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}
	if resp.ID != id {
		return fmt.Errorf("socketrpc: response id %d does not match request %d", resp.ID, id)
	}

	if resp.Error != nil {
		return resp.Error
	}

	if dest != nil {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

func (c *Client) ListCountries() ([]string, error) {
	var result []string
	err := c.call("ListCountries", map[string]interface{}{}, &result)
	return result, err
}

func (c *Client) ListVariants() ([]string, error) {
	var result []string
	err := c.call("ListVariants", map[string]interface{}{}, &result)
	return result, err
}

func (c *Client) VariantsInCountry(country string) ([]string, error) {
	var result []string
	err := c.call("VariantsInCountry", map[string]interface{}{"Country": country}, &result)
	return result, err
}

func (c *Client) TopVariants(country string, metric model.Metric, limit int) ([]model.VariantRecord, error) {
	var result []model.VariantRecord
	err := c.call("TopVariants", map[string]interface{}{"Country": country, "Metric": metric, "Limit": limit}, &result)
	return result, err
}

func (c *Client) CountryRecords(country string) ([]model.VariantRecord, error) {
	var result []model.VariantRecord
	err := c.call("CountryRecords", map[string]interface{}{"Country": country}, &result)
	return result, err
}

func (c *Client) Summary() (model.DatasetSummary, error) {
	var result model.DatasetSummary
	err := c.call("Summary", map[string]interface{}{}, &result)
	return result, err
}
