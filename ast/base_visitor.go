package ast

// BaseVisitor implements Visitor with no-op methods returning nil, so a
// caller that only cares about a handful of node kinds can embed it and
// override the rest (spec.md itself doesn't ask for this, but the teacher's
// visitor consumers - print_visitor.go, eval - all follow this embedding
// shape rather than implementing every method by hand).
type BaseVisitor struct{}

func (BaseVisitor) VisitUnit(n *Unit) any                     { return nil }
func (BaseVisitor) VisitImport(n *Import) any                 { return nil }
func (BaseVisitor) VisitVisibilityDecl(n *VisibilityDecl) any { return nil }
func (BaseVisitor) VisitNamespaceDecl(n *NamespaceDecl) any   { return nil }
func (BaseVisitor) VisitParamDecl(n *ParamDecl) any           { return nil }
func (BaseVisitor) VisitFunctionDecl(n *FunctionDecl) any     { return nil }
func (BaseVisitor) VisitVariableDecl(n *VariableDecl) any     { return nil }
func (BaseVisitor) VisitStructDecl(n *StructDecl) any         { return nil }

func (BaseVisitor) VisitIdentifiedTypeSpec(n *IdentifiedTypeSpec) any { return nil }
func (BaseVisitor) VisitPrimitiveTypeSpec(n *PrimitiveTypeSpec) any   { return nil }
func (BaseVisitor) VisitPointerTypeSpec(n *PointerTypeSpec) any       { return nil }
func (BaseVisitor) VisitReferenceTypeSpec(n *ReferenceTypeSpec) any   { return nil }
func (BaseVisitor) VisitArrayTypeSpec(n *ArrayTypeSpec) any           { return nil }

func (BaseVisitor) VisitBlockStmt(n *BlockStmt) any       { return nil }
func (BaseVisitor) VisitReturnStmt(n *ReturnStmt) any     { return nil }
func (BaseVisitor) VisitIfStmt(n *IfStmt) any             { return nil }
func (BaseVisitor) VisitWhileStmt(n *WhileStmt) any       { return nil }
func (BaseVisitor) VisitForStmt(n *ForStmt) any           { return nil }
func (BaseVisitor) VisitExprStmt(n *ExprStmt) any         { return nil }
func (BaseVisitor) VisitVariableStmt(n *VariableStmt) any { return nil }

func (BaseVisitor) VisitLiteralExpr(n *LiteralExpr) any         { return nil }
func (BaseVisitor) VisitIdentifierExpr(n *IdentifierExpr) any   { return nil }
func (BaseVisitor) VisitThisExpr(n *ThisExpr) any               { return nil }
func (BaseVisitor) VisitUnaryExpr(n *UnaryExpr) any             { return nil }
func (BaseVisitor) VisitBinaryExpr(n *BinaryExpr) any           { return nil }
func (BaseVisitor) VisitConditionalExpr(n *ConditionalExpr) any { return nil }
func (BaseVisitor) VisitCastExpr(n *CastExpr) any               { return nil }
func (BaseVisitor) VisitSubscriptExpr(n *SubscriptExpr) any     { return nil }
func (BaseVisitor) VisitCallExpr(n *CallExpr) any               { return nil }
func (BaseVisitor) VisitMemberExpr(n *MemberExpr) any           { return nil }
func (BaseVisitor) VisitExprList(n *ExprList) any               { return nil }
