package log

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type entry struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	ReqID  string         `json:"req_id,omitempty"`
	OpID   string         `json:"op_id,omitempty"`
	IP     string         `json:"ip,omitempty"`
	Method string         `json:"method,omitempty"`
	Path   string         `json:"path,omitempty"`
	Action string         `json:"action,omitempty"`
	Status int            `json:"status,omitempty"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Op ties together the entries written for one presenter operation.
type Op struct {
	ID string
}

func NewOp() Op { return Op{ID: uuid.NewString()} }

func write(level string, c *fiber.Ctx, op string, action string, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, OpID: op, Action: action, Fields: fields}
	if c != nil {
		e.IP = c.IP()
		e.Method = c.Method()
		e.Path = c.Path()
		e.Status = c.Response().StatusCode()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e.ReqID = rid
		}
	}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

// Request-scoped helpers; c may be nil.
func Warn(c *fiber.Ctx, action string, fields map[string]any) { write("warn", c, "", action, nil, fields) }
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, "", action, err, fields)
}

// Operation-scoped helpers; entries of one operation share its id.
func (o Op) Audit(action string, fields map[string]any) { write("audit", nil, o.ID, action, nil, fields) }
func (o Op) Info(action string, fields map[string]any)  { write("info", nil, o.ID, action, nil, fields) }
func (o Op) Error(action string, err error, fields map[string]any) {
	write("error", nil, o.ID, action, err, fields)
}
