// # internal/engine/parser/kinds.go
package parser

import "relight/internal/engine/syntax"

// tokenKinds lists named tree-sitter nodes that become a single leaf.
// Literals and comments carry inner structure in the grammar that the
// highlighter never needs.
var tokenKinds = map[string]syntax.Kind{
	"identifier":                 syntax.Ident,
	"metavariable":               syntax.Ident,
	"fragment_specifier":         syntax.Ident,
	"type_identifier":            syntax.TypeIdent,
	"primitive_type":             syntax.TypeIdent,
	"field_identifier":           syntax.FieldIdent,
	"shorthand_field_identifier": syntax.ShorthandFieldIdent,
	"integer_literal":            syntax.IntNumber,
	"float_literal":              syntax.FloatNumber,
	"string_literal":             syntax.String,
	"raw_string_literal":         syntax.String,
	"char_literal":               syntax.Char,
	"line_comment":               syntax.Comment,
	"block_comment":              syntax.Comment,
	"self":                       syntax.SelfKw,
	"super":                      syntax.SuperKw,
	"crate":                      syntax.CrateKw,
	"mutable_specifier":          syntax.MutKw,
}

var punctKinds = map[string]syntax.Kind{
	"?":  syntax.Question,
	"->": syntax.ThinArrow,
	"=>": syntax.FatArrow,
	"|":  syntax.Pipe,
	":":  syntax.Colon,
	"::": syntax.ColonColon,
	";":  syntax.Semicolon,
	",":  syntax.Comma,
	".":  syntax.Dot,
	"!":  syntax.Bang,
	"=":  syntax.Eq,
	"&":  syntax.Amp,
	"#":  syntax.Pound,
	"(":  syntax.LParen,
	")":  syntax.RParen,
	"{":  syntax.LBrace,
	"}":  syntax.RBrace,
	"[":  syntax.LBrack,
	"]":  syntax.RBrack,
	"<":  syntax.Lt,
	">":  syntax.Gt,
}

var keywordKinds = map[string]syntax.Kind{
	"as":           syntax.AsKw,
	"async":        syntax.AsyncKw,
	"await":        syntax.AwaitKw,
	"break":        syntax.BreakKw,
	"const":        syntax.ConstKw,
	"continue":     syntax.ContinueKw,
	"crate":        syntax.CrateKw,
	"default":      syntax.DefaultKw,
	"dyn":          syntax.DynKw,
	"else":         syntax.ElseKw,
	"enum":         syntax.EnumKw,
	"extern":       syntax.ExternKw,
	"false":        syntax.FalseKw,
	"fn":           syntax.FnKw,
	"for":          syntax.ForKw,
	"if":           syntax.IfKw,
	"impl":         syntax.ImplKw,
	"in":           syntax.InKw,
	"let":          syntax.LetKw,
	"loop":         syntax.LoopKw,
	"macro_rules!": syntax.MacroRulesKw,
	"match":        syntax.MatchKw,
	"mod":          syntax.ModKw,
	"move":         syntax.MoveKw,
	"mut":          syntax.MutKw,
	"pub":          syntax.PubKw,
	"ref":          syntax.RefKw,
	"return":       syntax.ReturnKw,
	"self":         syntax.SelfKw,
	"Self":         syntax.SelfTypeKw,
	"static":       syntax.StaticKw,
	"struct":       syntax.StructKw,
	"super":        syntax.SuperKw,
	"trait":        syntax.TraitKw,
	"true":         syntax.TrueKw,
	"try":          syntax.TryKw,
	"type":         syntax.TypeKw,
	"union":        syntax.UnionKw,
	"unsafe":       syntax.UnsafeKw,
	"use":          syntax.UseKw,
	"where":        syntax.WhereKw,
	"while":        syntax.WhileKw,
	"yield":        syntax.YieldKw,
}

var nodeKinds = map[string]syntax.Kind{
	"source_file": syntax.SourceFile,

	"function_item":                  syntax.FnItem,
	"function_signature_item":        syntax.FnItem,
	"struct_item":                    syntax.StructItem,
	"enum_item":                      syntax.EnumItem,
	"enum_variant":                   syntax.Variant,
	"enum_variant_list":              syntax.VariantList,
	"union_item":                     syntax.UnionItem,
	"trait_item":                     syntax.TraitItem,
	"impl_item":                      syntax.ImplItem,
	"mod_item":                       syntax.ModItem,
	"const_item":                     syntax.ConstItem,
	"static_item":                    syntax.StaticItem,
	"type_item":                      syntax.TypeAliasItem,
	"associated_type":                syntax.TypeAliasItem,
	"macro_definition":               syntax.MacroRulesItem,
	"macro_rule":                     syntax.MacroRule,
	"use_declaration":                syntax.UseItem,
	"use_as_clause":                  syntax.UseTree,
	"use_list":                       syntax.UseTree,
	"scoped_use_list":                syntax.UseTree,
	"use_wildcard":                   syntax.UseTree,
	"extern_crate_declaration":       syntax.ExternCrateItem,
	"foreign_mod_item":               syntax.ForeignModItem,
	"attribute_item":                 syntax.Attr,
	"inner_attribute_item":           syntax.Attr,
	"visibility_modifier":            syntax.Visibility,
	"declaration_list":               syntax.ItemList,
	"field_declaration_list":         syntax.FieldList,
	"ordered_field_declaration_list": syntax.FieldList,
	"field_declaration":              syntax.FieldDecl,

	"parameters":                 syntax.ParamList,
	"parameter":                  syntax.Param,
	"variadic_parameter":         syntax.Param,
	"self_parameter":             syntax.SelfParam,
	"closure_parameters":         syntax.ClosureParams,
	"type_parameters":            syntax.TypeParams,
	"type_parameter":             syntax.TypeParam,
	"constrained_type_parameter": syntax.TypeParam,
	"optional_type_parameter":    syntax.TypeParam,
	"lifetime_parameter":         syntax.LifetimeParam,
	"const_parameter":            syntax.ConstParam,
	"where_clause":               syntax.WhereClause,
	"where_predicate":            syntax.WherePred,
	"trait_bounds":               syntax.TypeBoundList,
	"type_arguments":             syntax.TypeArgs,

	"closure_expression":          syntax.ClosureExpr,
	"return_expression":           syntax.ReturnExpr,
	"try_expression":              syntax.TryExpr,
	"await_expression":            syntax.AwaitExpr,
	"break_expression":            syntax.BreakExpr,
	"continue_expression":         syntax.ContinueExpr,
	"loop_expression":             syntax.LoopExpr,
	"while_expression":            syntax.WhileExpr,
	"for_expression":              syntax.ForExpr,
	"if_expression":               syntax.IfExpr,
	"match_expression":            syntax.MatchExpr,
	"match_block":                 syntax.MatchArmList,
	"match_arm":                   syntax.MatchArm,
	"last_match_arm":              syntax.MatchArm,
	"match_pattern":               syntax.MatchPat,
	"call_expression":             syntax.CallExpr,
	"macro_invocation":            syntax.MacroCall,
	"field_expression":            syntax.FieldExpr,
	"scoped_identifier":           syntax.Path,
	"scoped_type_identifier":      syntax.Path,
	"binary_expression":           syntax.BinExpr,
	"assignment_expression":       syntax.AssignExpr,
	"compound_assignment_expr":    syntax.AssignExpr,
	"unary_expression":            syntax.UnaryExpr,
	"reference_expression":        syntax.RefExpr,
	"parenthesized_expression":    syntax.ParenExpr,
	"tuple_expression":            syntax.TupleExpr,
	"array_expression":            syntax.ArrayExpr,
	"index_expression":            syntax.IndexExpr,
	"range_expression":            syntax.RangeExpr,
	"type_cast_expression":        syntax.CastExpr,
	"struct_expression":           syntax.StructExpr,
	"field_initializer_list":      syntax.FieldInitList,
	"field_initializer":           syntax.FieldInit,
	"shorthand_field_initializer": syntax.ShorthandFieldInit,
	"base_field_initializer":      syntax.BaseFieldInit,
	"unit_expression":             syntax.UnitExpr,
	"yield_expression":            syntax.YieldExpr,
	"generic_function":            syntax.GenericFnExpr,
	"let_declaration":             syntax.LetStmt,
	"expression_statement":        syntax.ExprStmt,
	"let_condition":               syntax.LetCond,
	"let_chain":                   syntax.LetChain,
	"arguments":                   syntax.ArgList,

	"tuple_pattern":           syntax.TuplePat,
	"tuple_struct_pattern":    syntax.TupleStructPat,
	"struct_pattern":          syntax.StructPat,
	"field_pattern":           syntax.FieldPat,
	"ref_pattern":             syntax.RefPat,
	"reference_pattern":       syntax.RefPat,
	"mut_pattern":             syntax.MutPat,
	"or_pattern":              syntax.OrPat,
	"captured_pattern":        syntax.CapturedPat,
	"slice_pattern":           syntax.SlicePat,
	"range_pattern":           syntax.RangePat,
	"remaining_field_pattern": syntax.RestPat,

	"reference_type":              syntax.RefType,
	"pointer_type":                syntax.PointerType,
	"tuple_type":                  syntax.TupleType,
	"unit_type":                   syntax.TupleType,
	"array_type":                  syntax.ArrayType,
	"function_type":               syntax.FnType,
	"never_type":                  syntax.NeverType,
	"dynamic_type":                syntax.DynType,
	"abstract_type":               syntax.ImplTraitType,
	"bounded_type":                syntax.BoundedType,
	"generic_type":                syntax.GenericType,
	"generic_type_with_turbofish": syntax.GenericType,
	"qualified_type":              syntax.QualifiedType,
	"bracketed_type":              syntax.QualifiedType,

	"token_tree":               syntax.TokenTree,
	"token_tree_pattern":       syntax.TokenTree,
	"token_binding_pattern":    syntax.TokenTree,
	"token_repetition":         syntax.TokenTree,
	"token_repetition_pattern": syntax.TokenTree,
	"delim_token_tree":         syntax.TokenTree,
}
