// Package authz evaluates role capabilities with casbin.
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Capability 对象 + 动作
type Capability struct {
	Object string
	Action string
}

func (c Capability) String() string { return c.Object + ":" + c.Action }

var (
	ModerateContent = Capability{Object: "content", Action: "moderate"}
	LockThread      = Capability{Object: "forum", Action: "lock"}
	PinThread       = Capability{Object: "forum", Action: "pin"}
	ManageUsers     = Capability{Object: "users", Action: "manage"}
)

// Authorizer answers capability questions for an actor.
type Authorizer interface {
	Can(actor model.Actor, cap Capability) bool
}

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer 加载内嵌的模型与策略
func NewEnforcer() (*Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	if err := loadPolicy(e, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Enforcer{enforcer: e}, nil
}

func loadPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := e.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Can 按角色判断；未知角色一律拒绝
func (e *Enforcer) Can(actor model.Actor, cap Capability) bool {
	if !actor.Role.Valid() {
		return false
	}
	ok, err := e.enforcer.Enforce(string(actor.Role), cap.Object, cap.Action)
	if err != nil {
		logger.Warn("casbin enforce failed", zap.String("capability", cap.String()), zap.Error(err))
		return false
	}
	return ok
}
