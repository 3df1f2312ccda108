package java

import (
	"github.com/dhamidi/jfront/java/parser"
)

// ClassModelsFromSource parses src and outlines every class it declares.
// Members the parser could not read are left out.
func ClassModelsFromSource(src []byte, opts ...Option) []*ClassModel {
	return ClassModelsFromTree(Parse(src, opts...).Tree)
}

func ClassModelsFromTree(root *parser.Node) []*ClassModel {
	if root == nil {
		return nil
	}
	var models []*ClassModel
	for _, child := range root.ChildrenOfKind(parser.KindClassDecl) {
		if child.Token == nil {
			continue
		}
		models = append(models, classModelFromClassDecl(child))
	}
	return models
}

func classModelFromClassDecl(node *parser.Node) *ClassModel {
	mods := modifiersOf(node)
	model := &ClassModel{
		Name:       node.Token.Literal,
		Visibility: mods.visibility(),
		IsFinal:    mods["final"],
		IsAbstract: mods["abstract"],
		Line:       node.Span.Start.Line,
		EndLine:    node.Span.End.Line,
	}
	for _, member := range node.Children {
		switch member.Kind {
		case parser.KindFieldDecl:
			model.Fields = append(model.Fields, fieldModelsFromFieldDecl(member)...)
		case parser.KindMethodDecl:
			if member.Token != nil {
				model.Methods = append(model.Methods, methodModelFromMethodDecl(member))
			}
		}
	}
	return model
}

type modifierSet map[string]bool

func modifiersOf(node *parser.Node) modifierSet {
	set := make(modifierSet)
	mods := node.FirstChildOfKind(parser.KindModifiers)
	if mods == nil {
		return set
	}
	for _, m := range mods.Children {
		set[m.TokenLiteral()] = true
	}
	return set
}

func (m modifierSet) visibility() Visibility {
	switch {
	case m["public"]:
		return VisibilityPublic
	case m["protected"]:
		return VisibilityProtected
	case m["private"]:
		return VisibilityPrivate
	}
	return VisibilityPackage
}

// typeOf returns the type written in a declaration: the first Type or
// ArrayType child of node.
func typeOf(node *parser.Node) TypeModel {
	for _, child := range node.Children {
		if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
			return typeModelFromNode(child)
		}
	}
	return TypeModel{}
}

func typeModelFromNode(node *parser.Node) TypeModel {
	depth := 0
	for node.Kind == parser.KindArrayType && len(node.Children) > 0 {
		depth++
		node = node.Children[0]
	}
	return TypeModel{Name: node.TokenLiteral(), ArrayDepth: depth}
}

func fieldModelsFromFieldDecl(node *parser.Node) []FieldModel {
	mods := modifiersOf(node)
	typ := typeOf(node)
	var fields []FieldModel
	for _, decl := range node.ChildrenOfKind(parser.KindVarDeclarator) {
		if decl.Token == nil {
			continue
		}
		fields = append(fields, FieldModel{
			Name:       decl.Token.Literal,
			Type:       typ,
			Visibility: mods.visibility(),
			IsStatic:   mods["static"],
			IsFinal:    mods["final"],
			Line:       decl.Token.Line(),
			Value:      literalInitializer(decl),
		})
	}
	return fields
}

func literalInitializer(decl *parser.Node) any {
	init := decl.FirstChildOfKind(parser.KindLiteral)
	if init == nil || init.Token == nil {
		return nil
	}
	return init.Token.Value()
}

func methodModelFromMethodDecl(node *parser.Node) MethodModel {
	mods := modifiersOf(node)
	model := MethodModel{
		Name:       node.Token.Literal,
		ReturnType: typeOf(node),
		Visibility: mods.visibility(),
		IsStatic:   mods["static"],
		IsFinal:    mods["final"],
		IsAbstract: mods["abstract"],
		Line:       node.Span.Start.Line,
		EndLine:    node.Span.End.Line,
	}
	if params := node.FirstChildOfKind(parser.KindParameters); params != nil {
		for _, param := range params.ChildrenOfKind(parser.KindParameter) {
			if param.Token == nil {
				continue
			}
			model.Parameters = append(model.Parameters, ParameterModel{
				Name: param.Token.Literal,
				Type: typeOf(param),
			})
		}
	}
	if body := node.FirstChildOfKind(parser.KindBlock); body != nil {
		model.Locals = localsIn(body)
	}
	return model
}

// localsIn collects local declarations in source order, including loop
// variables declared in for headers.
func localsIn(body *parser.Node) []LocalModel {
	var locals []LocalModel
	body.Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindLocalVarDecl && n.Kind != parser.KindForInit {
			return true
		}
		typ := typeOf(n)
		if typ.Name == "" {
			return true
		}
		for _, decl := range n.ChildrenOfKind(parser.KindVarDeclarator) {
			if decl.Token != nil {
				locals = append(locals, LocalModel{Name: decl.Token.Literal, Type: typ, Line: decl.Token.Line()})
			}
		}
		return true
	})
	return locals
}
