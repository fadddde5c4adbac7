package autoload

// Rule maps a namespace prefix to the roots that serve it.
type Rule struct {
	Prefix string
	Roots  []string
}

// Rules is an ordered prefix -> roots mapping.
type Rules []Rule

// Add appends roots to prefix, creating the rule if needed. Rule order is
// first-insertion order.
func (rs Rules) Add(prefix string, roots ...string) Rules {
	for i := range rs {
		if rs[i].Prefix == prefix {
			rs[i].Roots = append(rs[i].Roots, roots...)
			return rs
		}
	}
	return append(rs, Rule{Prefix: prefix, Roots: roots})
}

// BuildFromRules constructs one resolver per (prefix, root) pair without
// registering them. Identical pairs are not de-duplicated.
func BuildFromRules(rules Rules, options ...Option) []*SymbolResolver {
	var resolvers []*SymbolResolver
	for _, rule := range rules {
		for _, root := range rule.Roots {
			resolvers = append(resolvers, NewSymbolResolver(rule.Prefix, root, options...))
		}
	}
	return resolvers
}

// RegisterFromRules builds resolvers from rules and registers each on host.
func RegisterFromRules(host Host, rules Rules, options ...Option) []*SymbolResolver {
	resolvers := BuildFromRules(rules, options...)
	for _, r := range resolvers {
		r.Register(host)
	}
	return resolvers
}

// UnregisterAll unregisters every resolver.
func UnregisterAll(resolvers []*SymbolResolver) {
	for _, r := range resolvers {
		r.Unregister()
	}
}
