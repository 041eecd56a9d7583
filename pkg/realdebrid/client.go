// Package realdebrid implements a client for the Real-Debrid REST API.
package realdebrid

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/amaumene/gostremiord/pkg/httputil"
)

const defaultBaseURL = "https://api.real-debrid.com/rest/1.0"

// Client talks to the Real-Debrid REST API with a bearer token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a Real-Debrid client authenticated with token.
func NewClient(token string) *Client {
	return &Client{
		httpClient: httputil.NewDefaultHTTPClient(),
		baseURL:    defaultBaseURL,
		token:      token,
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// Download is one entry of the downloads list.
type Download struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	Filesize   int64  `json:"filesize"`
	Link       string `json:"link"`       // original hoster link
	Download   string `json:"download"`   // unrestricted direct URL
	Streamable int    `json:"streamable"` // 1 when directly playable
	Host       string `json:"host"`
	Generated  string `json:"generated"`
}

// TorrentFile is one file inside a torrent.
type TorrentFile struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	Selected int    `json:"selected"`
}

// Torrent is one entry of the torrents list. Files and Links stay empty in
// list replies; the info endpoint fills them, with Links index-aligned to
// the selected Files.
type Torrent struct {
	ID       string        `json:"id"`
	Filename string        `json:"filename"`
	Hash     string        `json:"hash"`
	Bytes    int64         `json:"bytes"`
	Host     string        `json:"host"`
	Status   string        `json:"status"`
	Progress float64       `json:"progress"`
	Added    string        `json:"added"`
	Files    []TorrentFile `json:"files,omitempty"`
	Links    []string      `json:"links,omitempty"`
}

// UnrestrictedLink is the reply of POST /unrestrict/link.
type UnrestrictedLink struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Filesize   int64  `json:"filesize"`
	Link       string `json:"link"`
	Host       string `json:"host"`
	Download   string `json:"download"`
	Streamable int    `json:"streamable"`
}

// AddedMagnet is the reply of POST /torrents/addMagnet.
type AddedMagnet struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// Downloads fetches one page of the downloads list. A short or empty page
// signals the end of the list to the caller.
func (c *Client) Downloads(page, limit int) ([]Download, error) {
	endpoint := fmt.Sprintf("%s/downloads?limit=%d&page=%d", c.baseURL, limit, page)

	var items []Download
	if err := c.getJSON(endpoint, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Torrents fetches one page of the torrents list.
func (c *Client) Torrents(page, limit int) ([]Torrent, error) {
	endpoint := fmt.Sprintf("%s/torrents?limit=%d&page=%d", c.baseURL, limit, page)

	var items []Torrent
	if err := c.getJSON(endpoint, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// TorrentInfo fetches the detail record of a single torrent, including its
// file list and hoster links.
func (c *Client) TorrentInfo(id string) (*Torrent, error) {
	endpoint := fmt.Sprintf("%s/torrents/info/%s", c.baseURL, url.PathEscape(id))

	var info Torrent
	if err := c.getJSON(endpoint, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UnrestrictLink converts an original hoster link into a direct download URL.
func (c *Client) UnrestrictLink(link string) (*UnrestrictedLink, error) {
	form := url.Values{}
	form.Set("link", link)

	var result UnrestrictedLink
	if err := c.postForm(fmt.Sprintf("%s/unrestrict/link", c.baseURL), form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddMagnet submits a magnet link for conversion.
func (c *Client) AddMagnet(magnet string) (*AddedMagnet, error) {
	form := url.Values{}
	form.Set("magnet", magnet)

	var result AddedMagnet
	if err := c.postForm(fmt.Sprintf("%s/torrents/addMagnet", c.baseURL), form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SelectFiles marks which files of a torrent should be downloaded.
// files is a comma-separated id list or "all".
func (c *Client) SelectFiles(torrentID, files string) error {
	form := url.Values{}
	form.Set("files", files)

	endpoint := fmt.Sprintf("%s/torrents/selectFiles/%s", c.baseURL, url.PathEscape(torrentID))
	return c.postForm(endpoint, form, nil)
}

// DeleteDownload removes one entry from the downloads list.
func (c *Client) DeleteDownload(id string) error {
	return c.delete(fmt.Sprintf("%s/downloads/delete/%s", c.baseURL, url.PathEscape(id)))
}

// DeleteTorrent removes one torrent from the account.
func (c *Client) DeleteTorrent(id string) error {
	return c.delete(fmt.Sprintf("%s/torrents/delete/%s", c.baseURL, url.PathEscape(id)))
}

func (c *Client) getJSON(endpoint string, result interface{}) error {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) postForm(endpoint string, form url.Values, result interface{}) error {
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, result)
}

func (c *Client) delete(endpoint string) error {
	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, result interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("real-debrid API error: status %d for %s", resp.StatusCode, req.URL.Path)
	}

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
