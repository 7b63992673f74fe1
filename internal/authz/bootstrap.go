package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
// cashier 只负责日常开单，manager 额外掌握受控变更与设置
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
				{Object: "/admin/password", Action: "PUT"},
			},
		},
		{
			Role:     "cashier",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/sales", Action: "GET"},
				{Object: "/admin/sales/:order_no", Action: "GET"},
				{Object: "/admin/sales/:order_no/retry-settlement", Action: "POST"},
				{Object: "/admin/products", Action: "GET"},
				{Object: "/admin/zones", Action: "GET"},
			},
		},
		{
			Role:     "manager",
			Inherits: []string{"cashier"},
			Policies: []Policy{
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/:id", Action: "*"},
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/:id", Action: "*"},
				{Object: "/admin/zones", Action: "*"},
				{Object: "/admin/zones/:id", Action: "*"},
				{Object: "/admin/sales/:order_no/cancel", Action: "POST"},
				{Object: "/admin/edits", Action: "*"},
				{Object: "/admin/edits/:handle", Action: "*"},
				{Object: "/admin/edits/:handle/confirm", Action: "POST"},
				{Object: "/admin/audit-entries", Action: "GET"},
				{Object: "/admin/settings/pricing", Action: "*"},
				{Object: "/admin/settings/store", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
