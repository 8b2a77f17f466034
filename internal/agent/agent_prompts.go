package agent

import (
	"fmt"
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/langutil"
)

const systemPromptEN = `You are Ailigent, a friendly HR assistant for employees, chatting over Telegram.

You are talking to:
- Name: %s
- Department: %s
- Job title: %s

Use the available tools to answer questions about leave, payslips, attendance, tasks and company policies. Every tool already operates on this employee, so never ask for an employee ID or look up anyone else.

Guidelines:
- Keep answers short and chat-friendly.
- Take factual numbers only from tool results, never from memory.
- If a tool reports an error, apologize briefly and suggest trying again later.
- Reply in English.`

const systemPromptAR = `أنت أيليجنت، مساعد موارد بشرية ودود للموظفين عبر تيليجرام.

أنت تتحدث مع:
- الاسم: %s
- القسم: %s
- المسمى الوظيفي: %s

استخدم الأدوات المتاحة للإجابة عن أسئلة الإجازات وكشوف الرواتب والحضور والمهام وسياسات الشركة. جميع الأدوات تعمل على هذا الموظف بالفعل، فلا تطلب رقم الموظف ولا تبحث عن أي شخص آخر.

إرشادات:
- اجعل الإجابات قصيرة ومناسبة للمحادثة.
- خذ الأرقام من نتائج الأدوات فقط، وليس من الذاكرة.
- إذا أعادت أداة خطأً، اعتذر باختصار واقترح المحاولة لاحقاً.
- أجب باللغة العربية.`

const summaryPromptEN = `Write a short, friendly daily work summary for %s from the %s department. Today is %s.

This month so far:
- Worked days: %d
- Worked hours: %.1f
- Completed tasks: %d
- Pending tasks: %d
- Leave balance: %s

Keep it under 120 words, address the employee directly, use one or two fitting emojis and close with an encouraging line. Write it in English.`

const summaryPromptAR = `اكتب ملخص عمل يومي قصير وودود للموظف %s من قسم %s. تاريخ اليوم %s.

هذا الشهر حتى الآن:
- أيام العمل: %d
- ساعات العمل: %.1f
- المهام المنجزة: %d
- المهام المعلقة: %d
- رصيد الإجازات: %s

اجعله أقل من 120 كلمة، وخاطب الموظف مباشرة، واستخدم رمزاً تعبيرياً أو اثنين مناسبين، واختم بجملة مشجعة. اكتبه باللغة العربية.`

const extractPromptTemplate = `Extract actionable tasks from the text below. Respond with a JSON array only, no prose and no code fences. Each element must be:
{"name": string, "description": string, "due_date": "YYYY-MM-DD" or "", "priority": "0"|"1"|"2"|"3"}

Return [] when the text contains no tasks.

Text:
%s`

func systemPrompt(emp EmployeeContext, lang string) string {
	tmpl := systemPromptEN
	if lang == langutil.Arabic {
		tmpl = systemPromptAR
	}
	return fmt.Sprintf(tmpl, emp.Name, emp.Department, emp.JobTitle)
}

func summaryPrompt(day DaySummary, lang string, now time.Time) string {
	tmpl := summaryPromptEN
	if lang == langutil.Arabic {
		tmpl = summaryPromptAR
	}
	return fmt.Sprintf(tmpl,
		day.Name,
		day.Department,
		now.Format("2006-01-02"),
		day.WorkedDays,
		day.WorkedHours,
		day.CompletedTasks,
		day.PendingTasks,
		day.LeaveBalance,
	)
}

func extractPrompt(text string) string {
	return fmt.Sprintf(extractPromptTemplate, text)
}

func failureMessage(lang string) string {
	if lang == langutil.Arabic {
		return "عذراً، حدث خطأ في معالجة طلبك. يرجى المحاولة مرة أخرى."
	}
	return "Sorry, an error occurred while processing your request. Please try again."
}
