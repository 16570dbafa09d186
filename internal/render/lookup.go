package render

import (
	"reflect"
	"strconv"
	"text/template"
	"text/template/parse"
)

// Helper functions placeholders are rewritten to call.
const (
	valueAtFunc = "_valueAt"
	missingFunc = "_missing"
	itemsFunc   = "_items"
)

// builtins are the functions text/template predefines.
var builtins = map[string]bool{
	"and": true, "call": true, "html": true, "index": true, "slice": true,
	"js": true, "len": true, "not": true, "or": true, "print": true,
	"printf": true, "println": true, "urlquery": true,
	"eq": true, "ge": true, "gt": true, "le": true, "lt": true, "ne": true,
}

var errorType = reflect.TypeFor[error]()

func helperFuncs() template.FuncMap {
	return template.FuncMap{
		valueAtFunc: valueAt,
		missingFunc: func(...any) any { return "" },
		itemsFunc:   items,
	}
}

// valueAt walks keys down from root. Anything it cannot reach resolves to "".
func valueAt(root any, keys ...string) any {
	cur := root
	for _, key := range keys {
		if cur == nil {
			return ""
		}
		if m, ok := cur.(map[string]any); ok {
			cur = m[key]
			continue
		}
		cur = member(reflect.ValueOf(cur), key)
	}
	return orEmpty(cur)
}

// member resolves name on v as a niladic method, a string-keyed map entry
// or an exported struct field.
func member(v reflect.Value, name string) any {
	if m := v.MethodByName(name); m.IsValid() {
		t := m.Type()
		if t.NumIn() != 0 || t.NumOut() == 0 || t.NumOut() > 2 || (t.NumOut() == 2 && t.Out(1) != errorType) {
			return nil
		}
		out := m.Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil
		}
		return out[0].Interface()
	}

	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		item := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !item.IsValid() {
			return nil
		}
		return item.Interface()
	case reflect.Struct:
		field := v.FieldByName(name)
		if !field.IsValid() || !field.CanInterface() {
			return nil
		}
		return field.Interface()
	}
	return nil
}

// items turns the empty placeholder back into nil so ranging over a missing
// value runs zero times instead of failing.
func items(v any) any {
	if s, ok := v.(string); ok && s == "" {
		return nil
	}
	return v
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// rewriter makes a parsed tree tolerant of missing data: field and variable
// chains resolve through valueAt, and names that are neither functions nor
// context keys resolve to "".
type rewriter struct {
	known func(name string) bool
}

func (r rewriter) list(list *parse.ListNode) {
	if list == nil {
		return
	}
	for _, node := range list.Nodes {
		switch n := node.(type) {
		case *parse.ActionNode:
			r.pipe(n.Pipe)
		case *parse.IfNode:
			r.branch(&n.BranchNode)
		case *parse.WithNode:
			r.branch(&n.BranchNode)
		case *parse.RangeNode:
			r.branch(&n.BranchNode)
			if n.Pipe != nil {
				n.Pipe.Cmds = append(n.Pipe.Cmds, command(n.Pos, parse.NewIdentifier(itemsFunc).SetPos(n.Pos)))
			}
		case *parse.TemplateNode:
			r.pipe(n.Pipe)
		}
	}
}

func (r rewriter) branch(b *parse.BranchNode) {
	r.pipe(b.Pipe)
	r.list(b.List)
	r.list(b.ElseList)
}

func (r rewriter) pipe(pipe *parse.PipeNode) {
	if pipe == nil {
		return
	}
	for _, cmd := range pipe.Cmds {
		for i, arg := range cmd.Args {
			cmd.Args[i] = r.arg(arg)
		}
	}
}

func (r rewriter) arg(node parse.Node) parse.Node {
	switch n := node.(type) {
	case *parse.FieldNode:
		return lookup(n.Pos, &parse.DotNode{NodeType: parse.NodeDot, Pos: n.Pos}, n.Ident)
	case *parse.VariableNode:
		if len(n.Ident) < 2 {
			return n
		}
		root := &parse.VariableNode{NodeType: parse.NodeVariable, Pos: n.Pos, Ident: n.Ident[:1]}
		return lookup(n.Pos, root, n.Ident[1:])
	case *parse.ChainNode:
		return lookup(n.Pos, r.arg(n.Node), n.Field)
	case *parse.IdentifierNode:
		if r.known(n.Ident) {
			return n
		}
		return parse.NewIdentifier(missingFunc).SetPos(n.Pos)
	case *parse.PipeNode:
		r.pipe(n)
	}
	return node
}

// lookup builds the pipeline (_valueAt root "field"...).
func lookup(pos parse.Pos, root parse.Node, fields []string) *parse.PipeNode {
	args := []parse.Node{parse.NewIdentifier(valueAtFunc).SetPos(pos), root}
	for _, field := range fields {
		args = append(args, &parse.StringNode{
			NodeType: parse.NodeString,
			Pos:      pos,
			Quoted:   strconv.Quote(field),
			Text:     field,
		})
	}
	return &parse.PipeNode{
		NodeType: parse.NodePipe,
		Pos:      pos,
		Cmds:     []*parse.CommandNode{command(pos, args...)},
	}
}

func command(pos parse.Pos, args ...parse.Node) *parse.CommandNode {
	return &parse.CommandNode{NodeType: parse.NodeCommand, Pos: pos, Args: args}
}
