package answer

import (
	"fmt"
	"strings"

	"github.com/jayz-blip/askboard/board"
)

// contextRuneLimit caps how much board evidence goes into one prompt.
const contextRuneLimit = 3000

const basePrompt = `당신은 사내 업무를 도와주는 AI 어시스턴트입니다.
사내 게시판의 정보를 참고하여 정확하고 도움이 되는 답변을 제공하세요.
게시판 정보가 제공된 경우, 그 정보를 바탕으로 답변하되,
정보가 없는 경우 일반적인 업무 지식으로 답변하세요.
답변은 한국어로 작성하세요.

중요한 지침:
1. 게시글의 작성자 정보가 있는 경우, 답변에 반드시 작성자 이름을 포함하세요.
   예: "박선미과장님이 이렇게 답변을 해주었다"와 같이 작성자 이름을 명시하세요.
2. 덧글 정보가 있는 경우, 덧글 작성자와 내용을 함께 언급하세요.`

const problemPrompt = `
3. 문제나 어려운 케이스에 대한 질문일 때는, 비슷한 기간 내의 게시글 중에서
   덧글 수가 많은 게시글을 우선적으로 참고하여 답변하세요.
   덧글이 많이 달린 게시글일수록 논란이 되었던 문제이거나 복잡한 케이스일 가능성이 높습니다.
   하지만 기간 필터링이나 다른 조건보다 우선하지 말고, 단지 참고 우선순위만 높이세요.`

// promptInput carries everything one completion prompt is built from.
type promptInput struct {
	message     string
	evidence    string
	problem     bool
	responsible *board.ResponsiblePerson
	history     []exchange
}

// buildPrompt assembles the instruction block, the optional
// responsible-person and evidence sections, the bounded conversation
// history, and finally the user's message.
func buildPrompt(in promptInput) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if in.problem {
		b.WriteString(problemPrompt)
	}
	if rp := in.responsible; rp != nil {
		fmt.Fprintf(&b, `
4. 담당자 문의에 대한 답변:
   - 최근 담당자: %s
   - 최근 활동일: %s
   위 정보를 바탕으로 해당 카테고리/업체에 대한 담당자를 안내하세요.`,
			rp.Name, rp.LastActivity)
	}
	if in.evidence != "" {
		fmt.Fprintf(&b, "\n\n[사내 게시판 정보]\n%s\n\n위 정보를 참고하여 답변하세요.",
			clipRunes(in.evidence, contextRuneLimit))
	}
	for _, ex := range in.history {
		fmt.Fprintf(&b, "\n\n사용자: %s\n어시스턴트: %s", ex.user, ex.assistant)
	}
	fmt.Fprintf(&b, "\n\n사용자: %s\n어시스턴트:", in.message)
	return b.String()
}

func clipRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
