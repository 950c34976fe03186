// # internal/engine/syntax/kind.go
package syntax

// Kind tags every element of the arena. Tokens are leaves, everything else
// is an interior node.
type Kind uint16

const (
	KindInvalid Kind = iota

	// Leaf tokens.
	Ident
	TypeIdent
	FieldIdent
	ShorthandFieldIdent
	IntNumber
	FloatNumber
	String
	Char
	Lifetime
	Comment
	Punct
	Question
	ThinArrow
	FatArrow
	Pipe
	Colon
	ColonColon
	Semicolon
	Comma
	Dot
	Bang
	Eq
	Amp
	Pound
	LParen
	RParen
	LBrace
	RBrace
	LBrack
	RBrack
	Lt
	Gt

	keywordStart
	AsKw
	AsyncKw
	AwaitKw
	BreakKw
	ConstKw
	ContinueKw
	CrateKw
	DefaultKw
	DynKw
	ElseKw
	EnumKw
	ExternKw
	FalseKw
	FnKw
	ForKw
	IfKw
	ImplKw
	InKw
	LetKw
	LoopKw
	MacroRulesKw
	MatchKw
	ModKw
	MoveKw
	MutKw
	PubKw
	RefKw
	ReturnKw
	SelfKw
	SelfTypeKw
	StaticKw
	StructKw
	SuperKw
	TraitKw
	TrueKw
	TryKw
	TypeKw
	UnionKw
	UnsafeKw
	UseKw
	WhereKw
	WhileKw
	YieldKw
	Keyword
	keywordEnd

	tokenEnd

	// Interior nodes.
	SourceFile
	ErrorNode
	OtherNode

	FnItem
	StructItem
	EnumItem
	Variant
	VariantList
	UnionItem
	TraitItem
	ImplItem
	ModItem
	ConstItem
	StaticItem
	TypeAliasItem
	MacroRulesItem
	MacroRule
	UseItem
	UseTree
	ExternCrateItem
	ForeignModItem
	Attr
	Visibility
	ItemList
	FieldList
	FieldDecl

	ParamList
	Param
	SelfParam
	ClosureParams
	TypeParams
	TypeParam
	LifetimeParam
	ConstParam
	WhereClause
	WherePred
	TypeBoundList
	TypeArgs
	Label

	BlockExpr
	ClosureExpr
	ReturnExpr
	TryExpr
	AwaitExpr
	BreakExpr
	ContinueExpr
	LoopExpr
	WhileExpr
	ForExpr
	IfExpr
	MatchExpr
	MatchArmList
	MatchArm
	MatchPat
	CallExpr
	MacroCall
	FieldExpr
	Path
	BinExpr
	AssignExpr
	UnaryExpr
	RefExpr
	ParenExpr
	TupleExpr
	ArrayExpr
	IndexExpr
	RangeExpr
	CastExpr
	StructExpr
	FieldInitList
	FieldInit
	ShorthandFieldInit
	BaseFieldInit
	UnitExpr
	YieldExpr
	GenericFnExpr
	LetStmt
	ExprStmt
	LetCond
	LetChain
	ArgList

	TuplePat
	TupleStructPat
	StructPat
	FieldPat
	RefPat
	MutPat
	OrPat
	CapturedPat
	SlicePat
	RangePat
	RestPat

	RefType
	PointerType
	TupleType
	ArrayType
	FnType
	NeverType
	DynType
	ImplTraitType
	BoundedType
	GenericType
	ScopedType
	QualifiedType

	TokenTree

	kindCount
)

var kindNames = [...]string{
	KindInvalid:         "INVALID",
	Ident:               "IDENT",
	TypeIdent:           "TYPE_IDENT",
	FieldIdent:          "FIELD_IDENT",
	ShorthandFieldIdent: "SHORTHAND_FIELD_IDENT",
	IntNumber:           "INT_NUMBER",
	FloatNumber:         "FLOAT_NUMBER",
	String:              "STRING",
	Char:                "CHAR",
	Lifetime:            "LIFETIME",
	Comment:             "COMMENT",
	Punct:               "PUNCT",
	Question:            "?",
	ThinArrow:           "->",
	FatArrow:            "=>",
	Pipe:                "|",
	Colon:               ":",
	ColonColon:          "::",
	Semicolon:           ";",
	Comma:               ",",
	Dot:                 ".",
	Bang:                "!",
	Eq:                  "=",
	Amp:                 "&",
	Pound:               "#",
	LParen:              "(",
	RParen:              ")",
	LBrace:              "{",
	RBrace:              "}",
	LBrack:              "[",
	RBrack:              "]",
	Lt:                  "<",
	Gt:                  ">",
	AsKw:                "as",
	AsyncKw:             "async",
	AwaitKw:             "await",
	BreakKw:             "break",
	ConstKw:             "const",
	ContinueKw:          "continue",
	CrateKw:             "crate",
	DefaultKw:           "default",
	DynKw:               "dyn",
	ElseKw:              "else",
	EnumKw:              "enum",
	ExternKw:            "extern",
	FalseKw:             "false",
	FnKw:                "fn",
	ForKw:               "for",
	IfKw:                "if",
	ImplKw:              "impl",
	InKw:                "in",
	LetKw:               "let",
	LoopKw:              "loop",
	MacroRulesKw:        "macro_rules",
	MatchKw:             "match",
	ModKw:               "mod",
	MoveKw:              "move",
	MutKw:               "mut",
	PubKw:               "pub",
	RefKw:               "ref",
	ReturnKw:            "return",
	SelfKw:              "self",
	SelfTypeKw:          "Self",
	StaticKw:            "static",
	StructKw:            "struct",
	SuperKw:             "super",
	TraitKw:             "trait",
	TrueKw:              "true",
	TryKw:               "try",
	TypeKw:              "type",
	UnionKw:             "union",
	UnsafeKw:            "unsafe",
	UseKw:               "use",
	WhereKw:             "where",
	WhileKw:             "while",
	YieldKw:             "yield",
	Keyword:             "KEYWORD",
	SourceFile:          "SOURCE_FILE",
	ErrorNode:           "ERROR",
	OtherNode:           "NODE",
	FnItem:              "FN",
	StructItem:          "STRUCT",
	EnumItem:            "ENUM",
	Variant:             "VARIANT",
	VariantList:         "VARIANT_LIST",
	UnionItem:           "UNION",
	TraitItem:           "TRAIT",
	ImplItem:            "IMPL",
	ModItem:             "MODULE",
	ConstItem:           "CONST",
	StaticItem:          "STATIC",
	TypeAliasItem:       "TYPE_ALIAS",
	MacroRulesItem:      "MACRO_RULES",
	MacroRule:           "MACRO_RULE",
	UseItem:             "USE",
	UseTree:             "USE_TREE",
	ExternCrateItem:     "EXTERN_CRATE",
	ForeignModItem:      "EXTERN_BLOCK",
	Attr:                "ATTR",
	Visibility:          "VISIBILITY",
	ItemList:            "ITEM_LIST",
	FieldList:           "FIELD_LIST",
	FieldDecl:           "FIELD",
	ParamList:           "PARAM_LIST",
	Param:               "PARAM",
	SelfParam:           "SELF_PARAM",
	ClosureParams:       "CLOSURE_PARAM_LIST",
	TypeParams:          "GENERIC_PARAM_LIST",
	TypeParam:           "TYPE_PARAM",
	LifetimeParam:       "LIFETIME_PARAM",
	ConstParam:          "CONST_PARAM",
	WhereClause:         "WHERE_CLAUSE",
	WherePred:           "WHERE_PRED",
	TypeBoundList:       "TYPE_BOUND_LIST",
	TypeArgs:            "GENERIC_ARG_LIST",
	Label:               "LABEL",
	BlockExpr:           "BLOCK_EXPR",
	ClosureExpr:         "CLOSURE_EXPR",
	ReturnExpr:          "RETURN_EXPR",
	TryExpr:             "TRY_EXPR",
	AwaitExpr:           "AWAIT_EXPR",
	BreakExpr:           "BREAK_EXPR",
	ContinueExpr:        "CONTINUE_EXPR",
	LoopExpr:            "LOOP_EXPR",
	WhileExpr:           "WHILE_EXPR",
	ForExpr:             "FOR_EXPR",
	IfExpr:              "IF_EXPR",
	MatchExpr:           "MATCH_EXPR",
	MatchArmList:        "MATCH_ARM_LIST",
	MatchArm:            "MATCH_ARM",
	MatchPat:            "MATCH_PAT",
	CallExpr:            "CALL_EXPR",
	MacroCall:           "MACRO_CALL",
	FieldExpr:           "FIELD_EXPR",
	Path:                "PATH",
	BinExpr:             "BIN_EXPR",
	AssignExpr:          "ASSIGN_EXPR",
	UnaryExpr:           "PREFIX_EXPR",
	RefExpr:             "REF_EXPR",
	ParenExpr:           "PAREN_EXPR",
	TupleExpr:           "TUPLE_EXPR",
	ArrayExpr:           "ARRAY_EXPR",
	IndexExpr:           "INDEX_EXPR",
	RangeExpr:           "RANGE_EXPR",
	CastExpr:            "CAST_EXPR",
	StructExpr:          "RECORD_EXPR",
	FieldInitList:       "RECORD_EXPR_FIELD_LIST",
	FieldInit:           "RECORD_EXPR_FIELD",
	ShorthandFieldInit:  "RECORD_EXPR_SHORTHAND",
	BaseFieldInit:       "RECORD_EXPR_BASE",
	UnitExpr:            "UNIT_EXPR",
	YieldExpr:           "YIELD_EXPR",
	GenericFnExpr:       "GENERIC_FN_EXPR",
	LetStmt:             "LET_STMT",
	ExprStmt:            "EXPR_STMT",
	LetCond:             "LET_EXPR",
	LetChain:            "LET_CHAIN",
	ArgList:             "ARG_LIST",
	TuplePat:            "TUPLE_PAT",
	TupleStructPat:      "TUPLE_STRUCT_PAT",
	StructPat:           "RECORD_PAT",
	FieldPat:            "RECORD_PAT_FIELD",
	RefPat:              "REF_PAT",
	MutPat:              "MUT_PAT",
	OrPat:               "OR_PAT",
	CapturedPat:         "CAPTURED_PAT",
	SlicePat:            "SLICE_PAT",
	RangePat:            "RANGE_PAT",
	RestPat:             "REST_PAT",
	RefType:             "REF_TYPE",
	PointerType:         "PTR_TYPE",
	TupleType:           "TUPLE_TYPE",
	ArrayType:           "ARRAY_TYPE",
	FnType:              "FN_PTR_TYPE",
	NeverType:           "NEVER_TYPE",
	DynType:             "DYN_TRAIT_TYPE",
	ImplTraitType:       "IMPL_TRAIT_TYPE",
	BoundedType:         "BOUNDED_TYPE",
	GenericType:         "GENERIC_TYPE",
	ScopedType:          "SCOPED_TYPE",
	QualifiedType:       "QUALIFIED_TYPE",
	TokenTree:           "TOKEN_TREE",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "KIND(?)"
}

// IsToken reports whether k is a leaf kind.
func (k Kind) IsToken() bool { return k > KindInvalid && k < tokenEnd }

func (k Kind) IsKeyword() bool { return k > keywordStart && k < keywordEnd }

// IsIdent covers every identifier-like leaf the grammar distinguishes.
func (k Kind) IsIdent() bool {
	switch k {
	case Ident, TypeIdent, FieldIdent, ShorthandFieldIdent:
		return true
	}
	return false
}

// IsItem reports kinds that open a new item scope.
func (k Kind) IsItem() bool {
	switch k {
	case FnItem, StructItem, EnumItem, UnionItem, TraitItem, ImplItem, ModItem,
		ConstItem, StaticItem, TypeAliasItem, MacroRulesItem, UseItem,
		ExternCrateItem, ForeignModItem:
		return true
	}
	return false
}

// IsLoop covers loop, while and for.
func (k Kind) IsLoop() bool {
	return k == LoopExpr || k == WhileExpr || k == ForExpr
}

// IsExpr reports kinds that can appear in expression position. Identifier,
// self and literal leaves count since the grammar does not wrap them.
func (k Kind) IsExpr() bool {
	switch k {
	case BlockExpr, ClosureExpr, ReturnExpr, TryExpr, AwaitExpr, BreakExpr,
		ContinueExpr, LoopExpr, WhileExpr, ForExpr, IfExpr, MatchExpr, CallExpr,
		MacroCall, FieldExpr, Path, BinExpr, AssignExpr, UnaryExpr, RefExpr,
		ParenExpr, TupleExpr, ArrayExpr, IndexExpr, RangeExpr, CastExpr,
		StructExpr, UnitExpr, YieldExpr, GenericFnExpr, LetCond:
		return true
	case Ident, SelfKw, IntNumber, FloatNumber, String, Char, TrueKw, FalseKw:
		return true
	}
	return false
}
