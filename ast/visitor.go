package ast

// Visitor dispatches over every concrete node kind, one method per kind,
// grounded on the teacher's parser.NodeVisitor interface.
type Visitor interface {
	VisitUnit(n *Unit) any
	VisitImport(n *Import) any
	VisitVisibilityDecl(n *VisibilityDecl) any
	VisitNamespaceDecl(n *NamespaceDecl) any
	VisitParamDecl(n *ParamDecl) any
	VisitFunctionDecl(n *FunctionDecl) any
	VisitVariableDecl(n *VariableDecl) any
	VisitStructDecl(n *StructDecl) any

	VisitIdentifiedTypeSpec(n *IdentifiedTypeSpec) any
	VisitPrimitiveTypeSpec(n *PrimitiveTypeSpec) any
	VisitPointerTypeSpec(n *PointerTypeSpec) any
	VisitReferenceTypeSpec(n *ReferenceTypeSpec) any
	VisitArrayTypeSpec(n *ArrayTypeSpec) any

	VisitBlockStmt(n *BlockStmt) any
	VisitReturnStmt(n *ReturnStmt) any
	VisitIfStmt(n *IfStmt) any
	VisitWhileStmt(n *WhileStmt) any
	VisitForStmt(n *ForStmt) any
	VisitExprStmt(n *ExprStmt) any
	VisitVariableStmt(n *VariableStmt) any

	VisitLiteralExpr(n *LiteralExpr) any
	VisitIdentifierExpr(n *IdentifierExpr) any
	VisitThisExpr(n *ThisExpr) any
	VisitUnaryExpr(n *UnaryExpr) any
	VisitBinaryExpr(n *BinaryExpr) any
	VisitConditionalExpr(n *ConditionalExpr) any
	VisitCastExpr(n *CastExpr) any
	VisitSubscriptExpr(n *SubscriptExpr) any
	VisitCallExpr(n *CallExpr) any
	VisitMemberExpr(n *MemberExpr) any
	VisitExprList(n *ExprList) any
}
