package shell

import (
	"fmt"
	"io"
)

// WriteBashInit writes the bash prompt integration.
func WriteBashInit(w io.Writer) {
	fmt.Fprint(w, `# moodjournal shell integration
__moodjournal_prompt_hook() {
  eval "$(command moodjournal status --env 2>/dev/null)"
}

moodjournal_prompt_info() {
  command moodjournal status 2>/dev/null
}

if [[ -z "$PROMPT_COMMAND" ]]; then
  PROMPT_COMMAND="__moodjournal_prompt_hook"
else
  PROMPT_COMMAND="__moodjournal_prompt_hook;${PROMPT_COMMAND}"
fi

eval "$(command moodjournal completion bash 2>/dev/null)"
`)
}

// WriteZshInit writes the zsh prompt integration.
func WriteZshInit(w io.Writer) {
	fmt.Fprint(w, `# moodjournal shell integration
__moodjournal_prompt_hook() {
  eval "$(command moodjournal status --env 2>/dev/null)"
}

moodjournal_prompt_info() {
  command moodjournal status 2>/dev/null
}

autoload -Uz add-zsh-hook
add-zsh-hook precmd __moodjournal_prompt_hook

eval "$(command moodjournal completion zsh 2>/dev/null)"
`)
}
