package ml_parser

import (
	"strings"

	"ngc-lexer/packages/compiler/src/core"
)

// tokenizeExpansionForm consumes one ICU construct at the cursor, if any.
func (t *Tokenizer) tokenizeExpansionForm() bool {
	if t.isExpansionFormStart() {
		t.consumeExpansionFormStart()
		return true
	}

	if t.cursor.Peek() != core.CharRBRACE && t.isInExpansionForm() {
		t.consumeExpansionCaseStart()
		return true
	}

	if t.cursor.Peek() == core.CharRBRACE {
		if t.isInExpansionCase() {
			t.consumeExpansionCaseEnd()
			return true
		}
		if t.isInExpansionForm() {
			t.consumeExpansionFormEnd()
			return true
		}
	}

	return false
}

// isExpansionFormStart reports whether the cursor is on a "{" that is not the
// start of an interpolation.
func (t *Tokenizer) isExpansionFormStart() bool {
	if t.cursor.Peek() != core.CharLBRACE {
		return false
	}
	start := t.interpolationConfig.Start
	return !t.lookahead(func(c CharacterCursor) bool { return acceptStr(c, start) })
}

func (t *Tokenizer) isInExpansionCase() bool {
	top, ok := t.expansionCaseStack.Peek()
	return ok && top == TokenTypeEXPANSION_CASE_EXP_START
}

func (t *Tokenizer) isInExpansionForm() bool {
	top, ok := t.expansionCaseStack.Peek()
	return ok && top == TokenTypeEXPANSION_FORM_START
}

func (t *Tokenizer) consumeExpansionFormStart() {
	t.beginToken(TokenTypeEXPANSION_FORM_START, nil)
	t.requireCharCode(core.CharLBRACE)
	t.endToken(nil)

	t.expansionCaseStack.Push(TokenTypeEXPANSION_FORM_START)

	t.beginToken(TokenTypeRAW_TEXT, nil)
	condition := t.readUntil(core.CharCOMMA)
	normalizedCondition := t.processCarriageReturns(condition)
	if t.i18nNormalizeLineEndingsInICUs {
		t.endToken([]string{normalizedCondition})
	} else {
		conditionToken := t.endToken([]string{condition})
		if normalizedCondition != condition {
			t.nonNormalizedIcuExpressions = append(t.nonNormalizedIcuExpressions, conditionToken)
		}
	}
	t.requireCharCode(core.CharCOMMA)
	t.attemptCharCodeUntilFn(isNotWhitespace)

	t.beginToken(TokenTypeRAW_TEXT, nil)
	expansionType := t.readUntil(core.CharCOMMA)
	t.endToken([]string{expansionType})
	t.requireCharCode(core.CharCOMMA)
	t.attemptCharCodeUntilFn(isNotWhitespace)
}

func (t *Tokenizer) consumeExpansionCaseStart() {
	t.beginToken(TokenTypeEXPANSION_CASE_VALUE, nil)
	value := strings.TrimSpace(t.readUntil(core.CharLBRACE))
	t.endToken([]string{value})
	t.attemptCharCodeUntilFn(isNotWhitespace)

	t.beginToken(TokenTypeEXPANSION_CASE_EXP_START, nil)
	t.requireCharCode(core.CharLBRACE)
	t.endToken(nil)
	t.attemptCharCodeUntilFn(isNotWhitespace)

	t.expansionCaseStack.Push(TokenTypeEXPANSION_CASE_EXP_START)
}

func (t *Tokenizer) consumeExpansionCaseEnd() {
	t.beginToken(TokenTypeEXPANSION_CASE_EXP_END, nil)
	t.requireCharCode(core.CharRBRACE)
	t.endToken(nil)
	t.attemptCharCodeUntilFn(isNotWhitespace)

	t.expansionCaseStack.Pop()
}

func (t *Tokenizer) consumeExpansionFormEnd() {
	t.beginToken(TokenTypeEXPANSION_FORM_END, nil)
	t.requireCharCode(core.CharRBRACE)
	t.endToken(nil)

	t.expansionCaseStack.Pop()
}
