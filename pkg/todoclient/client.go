package todoclient

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const DefaultTimeout = 10 * time.Second

// Todo as served by the todo API
type Todo struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	DueDate   string    `json:"dueDate"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateInput struct {
	Task    string `json:"task"`
	DueDate string `json:"dueDate"`
}

// UpdateInput nil fields are left out of the request body
type UpdateInput struct {
	Task      *string `json:"task,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	DueDate   *string `json:"dueDate,omitempty"`
}

// API the calls Manager needs; *Client implements it
type API interface {
	List() ([]Todo, error)
	Create(in CreateInput) (Todo, error)
	Update(id string, in UpdateInput) (Todo, error)
	Delete(id string) error
	DeleteAll() (int64, error)
}

// Client issues one HTTP request per call with no retries.
type Client struct {
	baseURL string
	timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) List() ([]Todo, error) {
	var todos []Todo
	if err := c.do(fiber.Get(c.url("/todos")), &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []Todo{}
	}
	return todos, nil
}

func (c *Client) Create(in CreateInput) (Todo, error) {
	var todo Todo
	err := c.do(fiber.Post(c.url("/todos")).JSON(in), &todo)
	return todo, err
}

func (c *Client) Update(id string, in UpdateInput) (Todo, error) {
	var todo Todo
	err := c.do(fiber.Put(c.url("/todos/"+url.PathEscape(id))).JSON(in), &todo)
	return todo, err
}

func (c *Client) Delete(id string) error {
	return c.do(fiber.Delete(c.url("/todos/"+url.PathEscape(id))), nil)
}

func (c *Client) DeleteAll() (int64, error) {
	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(fiber.Delete(c.url("/todos")), &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

func (c *Client) Ping() error {
	return c.do(fiber.Get(c.url("/ping")), nil)
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// do sends the request built on a and decodes a 2xx body into out (if non-nil).
func (c *Client) do(a *fiber.Agent, out any) error {
	a.Timeout(c.timeout)
	if err := a.Parse(); err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}

	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return &Error{Kind: KindNetwork, Err: errors.Join(errs...)}
	}

	if status < 200 || status > 299 {
		var eb struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &eb)
		return &Error{Kind: kindForStatus(status), Status: status, Message: eb.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindServer, Status: status, Message: "malformed response: " + err.Error()}
	}
	return nil
}
