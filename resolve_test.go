package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func findNode(prog *Program, match func(*ASTNode) bool) *ASTNode {
	var found *ASTNode
	var walk func(n *ASTNode)
	walk = func(n *ASTNode) {
		if n == nil || found != nil {
			return
		}
		if match(n) {
			found = n
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, cls := range prog.Classes {
		walk(cls.Body)
	}
	return found
}

func findVar(prog *Program, name string) *ASTNode {
	return findNode(prog, func(n *ASTNode) bool {
		return n.Kind == NodeVar && n.String == name
	})
}

func findCall(prog *Program, name string) *ASTNode {
	return findNode(prog, func(n *ASTNode) bool {
		return n.Kind == NodeCall && n.String == name
	})
}

func TestUndefinedIdentifierRead(t *testing.T) {
	err := checkErr(t, prelude+`
class Main {
    static main() {
        var x
        x = y + 1
    }
}`, CodeDefinition)
	be.True(t, strings.Contains(err.Error(), "undefined variable 'y'"))
}

func TestIdentifierOutOfScope(t *testing.T) {
	// b is only visible inside the if block
	checkErr(t, prelude+`
class Main {
    static main() {
        if (true) {
            var b
        }
        var x
        x = b
    }
}`, CodeDefinition)
}

func TestCodegenNames(t *testing.T) {
	prog, _ := checkOK(t, prelude+`
class Main {
    static main() {
        var x
        if (true) {
            var y
        }
    }
    static f(a) {
        var z
    }
}`)

	be.Equal(t, findVar(prog, "x").CodegenName, "x_11")
	be.Equal(t, findVar(prog, "y").CodegenName, "y_111")
	be.Equal(t, findVar(prog, "z").CodegenName, "z_12")

	fn := findNode(prog, func(n *ASTNode) bool {
		return n.Kind == NodeFunction && n.String == "f"
	})
	be.Equal(t, fn.CodegenName, "f_1")
	be.Equal(t, fn.ParamCodegenNames, []string{"a_12"})
}

func TestCodegenNamesAcrossClasses(t *testing.T) {
	prog, _ := checkOK(t, prelude+`
class A {
    static main() {
        var a
    }
}
class B {
    static f() {
        var b
    }
}`)
	be.Equal(t, findVar(prog, "a").CodegenName, "a_11")
	be.Equal(t, findVar(prog, "b").CodegenName, "b_21")
}

func TestShadowedVariablesTypeIndependently(t *testing.T) {
	prog, _ := checkOK(t, prelude+`
class Main {
    static main() {
        var x
        x = 1
        if (x < 2) {
            var x
            x = "s"
        }
    }
}`)

	outer := findVar(prog, "x")
	be.Equal(t, outer.CodegenName, "x_11")
	be.Equal(t, outer.Sym.Type, TypeInt)

	inner := findNode(prog, func(n *ASTNode) bool {
		return n.Kind == NodeVar && n.String == "x" && n != outer
	})
	be.Equal(t, inner.CodegenName, "x_111")
	be.Equal(t, inner.Sym.Type, TypeString)
}

func TestTypeLearningThroughAssignments(t *testing.T) {
	prog, _ := checkOK(t, prelude+`
class Main {
    static main() {
        var n
        n = 1
        n = 2.5
        var s
        s = "a"
        var m
        m = 1
        m = "s"
    }
}`)
	be.Equal(t, findVar(prog, "n").Sym.Type, TypeDouble)
	be.Equal(t, findVar(prog, "s").Sym.Type, TypeString)
	be.Equal(t, findVar(prog, "m").Sym.Type, TypeUnknown)
}

func TestInferenceThroughVariables(t *testing.T) {
	// n * s with n Int and s String types as String
	prog, _ := checkOK(t, prelude+`
class Main {
    static main() {
        var n
        var s
        n = 3
        s = "ab"
        var r
        r = n * s
    }
}`)
	be.Equal(t, findVar(prog, "r").Sym.Type, TypeString)
}

func TestUnknownOperandSuppressesCheck(t *testing.T) {
	// f's result is Unknown, so the addition cannot be rejected
	checkOK(t, prelude+`
class Main {
    static f(a) { return a }
    static main() {
        var x
        x = f(1) + "s"
    }
}`)
}

func TestBuiltinReturnTypesFlow(t *testing.T) {
	prog, _ := checkOK(t, prelude+`
class Main {
    static main() {
        var n
        n = Std.length("abc")
        var d
        d = Std.read_num()
    }
}`)
	be.Equal(t, findVar(prog, "n").Sym.Type, TypeInt)
	be.Equal(t, findVar(prog, "d").Sym.Type, TypeDouble)
}

func TestVoidResultCannotBeChecked(t *testing.T) {
	// Std.write returns Void; assigning it degrades to no learned type
	prog, _ := checkOK(t, prelude+`
class Main {
    static main() {
        var x
        x = Std.write(1)
    }
}`)
	be.Equal(t, findVar(prog, "x").Sym.Type, TypeUnknown)
}

func TestCallAnnotations(t *testing.T) {
	prog, _ := checkOK(t, prelude+`
class Main {
    static f(a, b) { }
    static main() {
        f(1, 2)
        Std.write(3)
    }
}`)
	be.Equal(t, findCall(prog, "f").CodegenName, "f_2")
	be.Equal(t, findCall(prog, "Std.write").CodegenName, "Std.write")
}

func TestAccessorAnnotations(t *testing.T) {
	prog, _ := checkOK(t, prelude+`
class Main {
    static p { return 1 }
    static p = v { }
    static main() {
        p = 5
        var x
        x = p
    }
}`)

	assign := findNode(prog, func(n *ASTNode) bool {
		return n.Kind == NodeAssign && n.String == "p"
	})
	be.Equal(t, assign.CodegenName, "set_p")

	read := findNode(prog, func(n *ASTNode) bool {
		return n.Kind == NodeIdent && n.String == "p"
	})
	be.Equal(t, read.CodegenName, "get_p")
}

func TestSetterOnlyPropertyRead(t *testing.T) {
	err := checkErr(t, prelude+`
class Main {
    static level = v { }
    static main() {
        Std.write(level)
    }
}`, CodeDefinition)
	be.True(t, strings.Contains(err.Error(), "no getter"))
}

func TestLocalShadowsAccessor(t *testing.T) {
	// a local with the property's name wins over the getter
	prog, _ := checkOK(t, prelude+`
class Main {
    static p { return 1 }
    static main() {
        var p
        p = 2
        var x
        x = p
    }
}`)
	read := findNode(prog, func(n *ASTNode) bool {
		return n.Kind == NodeIdent && n.String == "p"
	})
	be.Equal(t, read.CodegenName, "p_12")
	be.Equal(t, read.TypeTag, TypeInt)
}

func TestGlobalsRegistryLearning(t *testing.T) {
	_, res := checkOK(t, prelude+`
class Main {
    static main() {
        __count = 1
        __count = 2.5
        __name = "x"
        Std.write(__seen)
    }
}`)
	be.Equal(t, res.Globals.Names(), []string{"__count", "__name", "__seen"})
	be.Equal(t, res.Globals.TypeOf("__count"), TypeDouble)
	be.Equal(t, res.Globals.TypeOf("__name"), TypeString)
	be.Equal(t, res.Globals.TypeOf("__seen"), TypeUnknown)
}

func TestGlobalReadUsesLearnedType(t *testing.T) {
	// a global assigned a string earlier in the walk cannot multiply later
	checkErr(t, prelude+`
class Main {
    static main() {
        __s = "a"
        var x
        x = __s / 2
    }
}`, CodeExprType)
}

func TestIsExpressionTyping(t *testing.T) {
	prog, _ := checkOK(t, prelude+`
class Main {
    static main() {
        var x
        x = 1
        var b
        b = x is Num
    }
}`)
	be.Equal(t, findVar(prog, "b").Sym.Type, TypeBool)

	checkErr(t, prelude+`
class Main {
    static main() {
        var x
        x = 1
        var b
        b = x is x
    }
}`, CodeExprType)
}

func TestUnaryAndTernaryTyping(t *testing.T) {
	prog, _ := checkOK(t, prelude+`
class Main {
    static main() {
        var b
        b = !false
        var n
        n = true ? 1 : 2
    }
}`)
	be.Equal(t, findVar(prog, "b").Sym.Type, TypeBool)
	// ternary branches are not merged
	be.Equal(t, findVar(prog, "n").Sym.Type, TypeUnknown)
}

func TestEqualityAlwaysBool(t *testing.T) {
	prog, _ := checkOK(t, prelude+`
class Main {
    static main() {
        var b
        b = "a" == 1
    }
}`)
	be.Equal(t, findVar(prog, "b").Sym.Type, TypeBool)
}

func TestLogicalOperandTypes(t *testing.T) {
	checkOK(t, prelude+`
class Main {
    static main() {
        var b
        b = true and false
    }
}`)

	checkErr(t, prelude+`
class Main {
    static main() {
        var b
        b = true and 1
    }
}`, CodeExprType)
}
