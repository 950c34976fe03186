// # internal/engine/highlight/highlight_test.go
package highlight

import (
	"context"
	"testing"

	"relight/internal/engine/parser"
	"relight/internal/engine/resolver"
	"relight/internal/engine/semantics"
	"relight/internal/engine/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferences_Locals(t *testing.T) {
	check(t, `
fn foo() {
    let mut bar = 3;
         // ^^^ write
    bar$0;
 // ^^^ read
}
`)
}

func TestReferences_AssignIsWrite(t *testing.T) {
	check(t, `
fn foo() {
    let mut bar = 3;
         // ^^^ write
    bar$0 = bar + 1;
 // ^^^ write
        //^^^ read
}
`)
}

func TestReferences_FieldShorthand(t *testing.T) {
	check(t, `
struct Struct { field: u32 }
              //^^^^^
fn function(field: u32) {
          //^^^^^
    Struct { field$0 }
           //^^^^^ read
}
`)
}

func TestReferences_Label(t *testing.T) {
	check(t, `
fn foo() {
    'a: loop {
 // ^^
        break 'a$0;
           // ^^
    }
}
`)
}

func TestReferences_PreferredOverTailExit(t *testing.T) {
	check(t, `
fn foo() -> u32 {
// ^^^
    if true {
        return 0;
    }

    0?;

    foo$0()
 // ^^^
}
`)
}

func TestReferences_TraitImplMethods(t *testing.T) {
	check(t, `
trait Trait {
    fn func$0(self) {}
     //^^^^
}

impl Trait for () {
    fn func(self) {}
     //^^^^
}

fn main() {
    <()>::func(());
        //^^^^
    ().func();
     //^^^^
}
`)
}

func TestReferences_TraitAssocItemUses(t *testing.T) {
	check(t, `
trait Super {
    type SuperT;
}
trait Foo: Super {
    //^^^
    type T;
    const C: usize;
    fn f() {}
    fn m(&self) {}
}
impl Foo for i32 {
   //^^^
    type T = i32;
    const C: usize = 0;
    fn f() {}
    fn m(&self) {}
}
fn f<T: Foo$0>(t: T) {
      //^^^
    let _: T::SuperT;
            //^^^^^^
    let _: T::T;
            //^
    t.m();
    //^
    T::C;
     //^
    T::f();
     //^
}

fn f2<T: Foo>(t: T) {
       //^^^
    let _: T::SuperT;
    let _: T::T;
    t.m();
    T::C;
    T::f();
}
`)
}

func TestReferences_ImplicitFormatArgs(t *testing.T) {
	check(t, `
fn test() {
    let a = String::new();
      //^
    format_args!("hello {a} {a$0} {}", a);
                       //^read
                           //^read
                                   //^read
}
`)
}

func TestReferences_PositionalPlaceholder(t *testing.T) {
	check(t, `
fn test() {
    let a = 1;
    format_args!("{$0}", a);
                //^^
}
`)
}

func TestExitPoints_Return(t *testing.T) {
	check(t, `
  fn foo() -> u32 {
//^^
    if true {
        return$0 0;
     // ^^^^^^
    }

    0?;
  // ^
    0xDEAD_BEEF
 // ^^^^^^^^^^^
  }
`)
}

func TestExitPoints_FromArrow(t *testing.T) {
	check(t, `
  fn foo() ->$0 u32 {
//^^
    if true {
        return 0;
     // ^^^^^^
    }
    0
 // ^
  }
`)
}

func TestExitPoints_LetElse(t *testing.T) {
	check(t, `
  fn foo() -> u32 {
//^^
    let Some(bar) = None else {
        return$0 0;
     // ^^^^^^
    };

    0?;
  // ^
    0xDEAD_BEEF
 // ^^^^^^^^^^^
  }
`)
}

func TestExitPoints_Closure(t *testing.T) {
	check(t, `
fn foo() {
    let x = |a| {
         // ^ ^
        if a > 0 { return$0 1; }
                // ^^^^^^
        2
     // ^
    };
}
`)
}

func TestExitPoints_NeverCalls(t *testing.T) {
	check(t, `
struct Never;
impl Never {
    fn never(self) -> ! { loop {} }
}
macro_rules! never {
    () => { never() }
}
fn never() -> ! { loop {} }
  fn foo() ->$0 u32 {
//^^
    never();
 // ^^^^^^^
    never!();
 // ^^^^^^^^
    Never.never();
 // ^^^^^^^^^^^^^
    0
 // ^
  }
`)
}

func TestExitPoints_InnerTails(t *testing.T) {
	check(t, `
  fn foo() ->$0 u32 {
//^^
    if true {
        unsafe {
            return 5;
         // ^^^^^^
            5
         // ^
        }
    } else if false {
        0
     // ^
    } else {
        match 5 {
            6 => 100,
              // ^^^
            7 => loop {
                break 5;
             // ^^^^^
            }
            8 => 'a: loop {
                'b: loop {
                    break 'a 5;
                 // ^^^^^
                    break 'b 5;
                    break 5;
                };
            }
            _ => 500,
              // ^^^
        }
    }
  }
`)
}

func TestExitPoints_LabeledBlockTail(t *testing.T) {
	check(t, `
  fn foo() ->$0 u32 {
//^^
    'foo: {
        break 'foo 0;
     // ^^^^^
        loop {
            break;
            break 'foo 0;
         // ^^^^^
        }
        0
     // ^
    }
  }
`)
}

func TestExitPoints_AsyncBlockIsOwnContext(t *testing.T) {
	check(t, `
fn foo() {
    let f = async {
         // ^^^^^
        return$0 1;
     // ^^^^^^
    };
    return;
}
`)
}

func TestExitPoints_SignatureOnly(t *testing.T) {
	check(t, `
trait T {
    fn$0 f();
 // ^^
}
`)
}

func TestYieldPoints_AsyncFn(t *testing.T) {
	check(t, `
  async fn foo() {
//^^^^^
    let x = bar().await$0;
               // ^^^^^
    (async { x.await }).await
                     // ^^^^^
  }
`)
}

func TestYieldPoints_AsyncBlock(t *testing.T) {
	check(t, `
async fn foo() {
    (async {
  // ^^^^^
        x.await$0;
       // ^^^^^
    }).await;
}
`)
}

func TestYieldPoints_NotAsync(t *testing.T) {
	check(t, `
fn foo() {
    let c = || x.await$0;
}
`)
}

func TestBreakPoints_Loop(t *testing.T) {
	check(t, `
fn foo() {
    'outer: loop {
 // ^^^^^^^^^^^^
         break;
      // ^^^^^
         'inner: loop {
            break;
            'innermost: loop {
                break 'outer;
             // ^^^^^^^^^^^^
                break 'inner;
            }
            break$0 'outer;
         // ^^^^^^^^^^^^
            break;
        }
        break;
     // ^^^^^
    }
}
`)
}

func TestBreakPoints_ForButNotContinue(t *testing.T) {
	check(t, `
fn foo() {
    'outer: for _ in () {
 // ^^^^^^^^^^^
        break;
     // ^^^^^
        continue;
        'inner: for _ in () {
            break;
            'innermost: for _ in () {
                continue 'outer;
                break 'outer;
             // ^^^^^^^^^^^^
                continue 'inner;
                break 'inner;
            }
            break$0 'outer;
         // ^^^^^^^^^^^^
            continue 'outer;
            break;
            continue;
        }
        break;
     // ^^^^^
        continue;
    }
}
`)
}

func TestBreakPoints_ContinueButNotBreak(t *testing.T) {
	check(t, `
fn foo() {
    'outer: for _ in () {
 // ^^^^^^^^^^^
        break;
        continue;
     // ^^^^^^^^
        'inner: for _ in () {
            break;
            'innermost: for _ in () {
                continue 'outer;
             // ^^^^^^^^^^^^^^^
                break 'outer;
                continue 'inner;
                break 'inner;
            }
            break 'outer;
            continue$0 'outer;
         // ^^^^^^^^^^^^^^^
            break;
            continue;
        }
        break;
        continue;
     // ^^^^^^^^
    }
}
`)
}

func TestBreakPoints_ForKeywordBoth(t *testing.T) {
	check(t, `
fn foo() {
    'outer: fo$0r _ in () {
 // ^^^^^^^^^^^
        break;
     // ^^^^^
        continue;
     // ^^^^^^^^
        for _ in () {
            break 'outer;
         // ^^^^^^^^^^^^
            continue;
        }
    }
}
`)
}

func TestBreakPoints_While(t *testing.T) {
	check(t, `
fn foo() {
    'outer: whi$0le true {
 // ^^^^^^^^^^^^^
        break;
     // ^^^^^
        'inner: while true {
            break;
            break 'outer;
         // ^^^^^^^^^^^^
        }
        continue;
     // ^^^^^^^^
    }
}
`)
}

func TestBreakPoints_LabeledBlock(t *testing.T) {
	check(t, `
fn foo() {
    'outer: {
 // ^^^^^^^
         break;
      // ^^^^^
         'inner: {
            break;
            'innermost: {
                break 'outer;
             // ^^^^^^^^^^^^
                break 'inner;
            }
            break$0 'outer;
         // ^^^^^^^^^^^^
            break;
        }
        break;
     // ^^^^^
    }
}
`)
}

func TestBreakPoints_SkipsClosures(t *testing.T) {
	check(t, `
fn foo() {
    loo$0p {
 // ^^^^
        break;
     // ^^^^^
        let c = || loop { break; };
    }
}
`)
}

func TestClosureCaptures_Pipe(t *testing.T) {
	check(t, `
fn f() {
    let x = 1;
    //  ^
    let c = $0|y| x + y;
    //          ^ read
}
`)
}

func TestClosureCaptures_Move(t *testing.T) {
	check(t, `
fn f() {
    let mut x = 1;
        //  ^ write
    let c = $0move |y| x + y;
        //           ^ read
}
`)
}

func TestClosureCaptures_NothingCaptured(t *testing.T) {
	fx := parseFixture(t, `
fn f() {
    let c = $0|y| y;
}
`)
	sema, pos := analyze(fx)
	got, feature := Dispatch(context.Background(), sema, AllEnabled(), pos)
	assert.Equal(t, FeatureClosureCaptures, feature)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDisabledConfigs(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		src  string
	}{
		{
			name: "references",
			cfg:  Config{ExitPoints: true, BreakPoints: true, ClosureCaptures: true, YieldPoints: true},
			src:  "fn foo() {\n    let x = 1;\n    x$0;\n}\n",
		},
		{
			name: "exit points",
			cfg:  Config{References: true, BreakPoints: true, ClosureCaptures: true, YieldPoints: true},
			src:  "fn$0 foo() -> u32 {\n    return 1;\n}\n",
		},
		{
			name: "break points",
			cfg:  Config{References: true, ExitPoints: true, ClosureCaptures: true, YieldPoints: true},
			src:  "fn foo() {\n    loop$0 {\n        break;\n    }\n}\n",
		},
		{
			name: "yield points",
			cfg:  Config{References: true, ExitPoints: true, BreakPoints: true, ClosureCaptures: true},
			src:  "async$0 fn foo() {\n    bar().await;\n}\n",
		},
		{
			name: "closure captures",
			cfg:  Config{References: true, ExitPoints: true, BreakPoints: true, YieldPoints: true},
			src:  "fn foo() {\n    let x = 1;\n    let c = $0|| x;\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := parseFixture(t, tt.src)
			sema, pos := analyze(fx)
			assert.Nil(t, Related(context.Background(), sema, tt.cfg, pos))
		})
	}
}

func TestDispatch_QuestionBeatsAwait(t *testing.T) {
	fx := parseFixture(t, `
async fn foo() -> Result<(), ()> {
    bar().await$0?;
    Ok(())
}
`)
	sema, pos := analyze(fx)
	got, feature := Dispatch(context.Background(), sema, AllEnabled(), pos)
	assert.Equal(t, FeatureExitPoints, feature)
	assert.NotEmpty(t, got)
}

func TestDispatch_NoTokenAtOffset(t *testing.T) {
	tree := parser.ParseSource("fn foo() {}\n")
	sema := resolver.Analyze(tree)
	got, feature := Dispatch(context.Background(), sema, AllEnabled(), semantics.FilePosition{Offset: 1000})
	assert.Nil(t, got)
	assert.Equal(t, FeatureNone, feature)
}

func TestRelated_SortedAndDeduplicated(t *testing.T) {
	fx := parseFixture(t, `
fn never() -> ! { loop {} }
fn foo() ->$0 u32 {
    never()
}
`)
	sema, pos := analyze(fx)
	got := Related(context.Background(), sema, AllEnabled(), pos)
	require.Len(t, got, 2)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Range.Start, got[i].Range.Start)
	}
	seen := make(map[HighlightedRange]bool)
	for _, h := range got {
		assert.False(t, seen[h], "duplicate %v", h)
		seen[h] = true
	}
}

func TestPickBestToken(t *testing.T) {
	tree := parser.ParseSource("fn f() { x.await?; a|b; }\n")
	tokenAt := func(text string) []syntax.NodeID {
		var out []syntax.NodeID
		for tok := range tree.Tokens() {
			if tree.Text(tok) == text {
				out = append(out, tok)
			}
		}
		require.NotEmpty(t, out, text)
		return out
	}
	await := tokenAt("await")[0]
	question := tokenAt("?")[0]
	a := tokenAt("a")[0]
	pipe := tokenAt("|")[0]

	assert.Equal(t, question, pickBestToken(tree, []syntax.NodeID{await, question}))
	assert.Equal(t, a, pickBestToken(tree, []syntax.NodeID{a, pipe}))
	assert.Equal(t, syntax.None, pickBestToken(tree, nil))
}

func TestReferences_OrPatternLocal(t *testing.T) {
	for _, src := range []string{`
fn foo((
    foo$0
  //^^^
    | foo
    //^^^
    | foo
    //^^^
): ()) {
    foo;
  //^^^ read
    let foo;
}
`, `
fn foo((
    foo
  //^^^
    | foo$0
    //^^^
    | foo
    //^^^
): ()) {
    foo;
  //^^^ read
    let foo;
}
`, `
fn foo((
    foo
  //^^^
    | foo
    //^^^
    | foo
    //^^^
): ()) {
    foo$0;
  //^^^ read
    let foo;
}
`} {
		check(t, src)
	}
}

func TestExitPoints_LabeledWhileTail(t *testing.T) {
	check(t, `
  fn foo() ->$0 u32 {
//^^
    'foo: while { return 0; true } {
               // ^^^^^^
        break 'foo 0;
     // ^^^^^
        return 0;
     // ^^^^^^
    }
}
`)
}

func TestYieldPoints_NestedFnStops(t *testing.T) {
	check(t, `
async fn foo() {
    async fn foo2() {
 // ^^^^^
        async fn foo3() {
            0.await
        }
        0.await$0
       // ^^^^^
    }
    0.await
}
`)
}

func TestBreakPoints_InnerLabelExcludesOuter(t *testing.T) {
	check(t, `
fn foo() {
    'outer: loop {
        break;
        'inner: loop {
     // ^^^^^^^^^^^^
            break;
         // ^^^^^
            'innermost: loop {
                break 'outer;
                break$0 'inner;
             // ^^^^^^^^^^^^
            }
            break 'outer;
            break;
         // ^^^^^
        }
        break;
    }
}
`)
}

func TestBreakPoints_SkipsEffectBlocks(t *testing.T) {
	check(t, `
fn foo() {
    loo$0p {
 // ^^^^
        async { break; };
        break;
     // ^^^^^
    }
}
`)
}

func TestClosureCaptures_OnlyInsideClosure(t *testing.T) {
	check(t, `
fn f() {
    let x = 1;
    //  ^
    let c = $0|y| x + y;
    //          ^ read
    x;
}
`)
}

func TestRelated_Idempotent(t *testing.T) {
	fx := parseFixture(t, `
fn foo() {
    let mut bar = 3;
    bar = bar$0 + 1;
}
`)
	sema, pos := analyze(fx)
	first := Related(context.Background(), sema, AllEnabled(), pos)
	second := Related(context.Background(), sema, AllEnabled(), pos)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	sema2, _ := analyze(fx)
	assert.Equal(t, first, Related(context.Background(), sema2, AllEnabled(), pos))
}
