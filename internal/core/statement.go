package core

import "strings"

// BuildCallTemplate renders the SQL-92 callable statement escape for a
// procedure or function taking count placeholders in total. For functions
// the first placeholder is the return value:
//
//	BuildCallTemplate("P", true, 3)  == "{call P(? ,? ,?)}"
//	BuildCallTemplate("F", false, 3) == "{? = call F(? ,?)}"
func BuildCallTemplate(name string, isProcedure bool, count int) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", newError(KindInvalidDeclaration, "procedure name is empty")
	}
	if count < 0 {
		return "", newError(KindInvalidDeclaration, "%s: negative parameter count %d", name, count)
	}
	if !isProcedure && count == 0 {
		return "", newError(KindInvalidDeclaration, "function %s needs a parameter for its return value", name)
	}

	var b strings.Builder
	b.WriteString("{")
	if !isProcedure {
		b.WriteString("? = ")
		count--
	}
	b.WriteString("call ")
	b.WriteString(name)
	b.WriteString("(")
	for i := 0; i < count; i++ {
		if i == 0 {
			b.WriteString("?")
		} else {
			b.WriteString(" ,?")
		}
	}
	b.WriteString(")}")
	return b.String(), nil
}
