package mcpserver

// MarkupSyntaxContract describes the inline markup Scribe persists, for LLM
// consumers creating or editing documents.
const MarkupSyntaxContract = `# Scribe Markup Syntax

Scribe documents are plain UTF-8 text with a small set of inline markers.
Everything that is not a recognized marker is literal text.

## Constructs

| Markup | Meaning |
|---|---|
| ` + "`# text`" + ` | Heading. Only at the start of a line, followed by one space. |
| ` + "`**text**`" + ` | Bold. |
| ` + "`*text*`" + ` | Italic. A single asterisk pair, never part of ` + "`**`" + `. |
| ` + "`=={color}:text==`" + ` | Highlight in yellow, green, blue or pink. |
| ` + "`==text==`" + ` | Highlight in the default yellow. |
| ` + "`~~text~~`" + ` | Strikethrough. |
| newline | Line break. |

## Rules

1. **Constructs do not nest.** Markers inside another construct are literal
   text of that construct.
2. **Precedence** when markers overlap: heading, bold, italic, colored
   highlight, plain highlight, strikethrough.
3. **Malformed markup is literal.** An unclosed ` + "`**`" + ` or ` + "`~~`" + ` is kept
   as typed.
4. **Offsets are bytes.** Tools that take ` + "`start`" + `/` + "`end`" + ` use UTF-8 byte
   offsets into the raw markup, and ranges must not split a character.
5. **Locked documents** show ` + "`[Encrypted Content]`" + ` and refuse edits until
   they are unlocked.

## Example

` + "```" + `
# Weekly notes
Ship the **release** on *Friday*.
=={green}:Done== ~~blocked~~
` + "```" + `
`
