package backend

import "fmt"

// ecsFieldMap is the Elastic Common Schema-style field table shared, with
// minor variations, by ElastAlert, AwsOpenSearch and Snowflake in the
// original sources (elastalert.rs/aws_opensearch.rs/snowflake.rs all carry
// near-identical ~90 entry tables). Rather than triplicate it we keep one
// copy and let each backend layer its own exceptions on top.
var ecsFieldMap = map[string]string{
	"image":               "process.executable.text",
	"parentcommandline":   "process.parent.command_line.text",
	"commandline":         "process.command_line.text",
	"EventID":             "winlog.event_id",
	"Channel":             "winlog.channel",
	"Provider_Name":       "winlog.provider_name",
	"ComputerName":        "winlog.computer_name",
	"FileName":            "file.path",
	"ProcessGuid":         "process.entity_id",
	"ProcessId":           "process.pid",
	"Image":               "process.executable",
	"CurrentDirectory":    "process.working_directory",
	"ParentProcessGuid":   "process.parent.entity_id",
	"ParentProcessId":     "process.parent.pid",
	"ParentImage":         "process.parent.executable",
	"ParentCommandLine":   "process.parent.command_line",
	"TargetFilename":      "file.path",
	"SourceIp":            "source.ip",
	"SourceHostname":      "source.domain",
	"SourcePort":          "source.port",
	"DestinationIp":       "destination.ip",
	"DestinationHostname": "destination.domain",
	"DestinationPort":     "destination.port",
	"ImageLoaded":         "file.path",
	"Signed":              "file.code_signature.signed",
	"SignatureStatus":     "file.code_signature.status",
	"TargetObject":        "registry.path",
	"QueryName":           "dns.question.name",
	"CommandName":         "powershell.command.name",
	"ScriptBlockText":     "powershell.file.script_block_text",
	"AccountDomain":       "user.domain",
	"AccountName":         "user.name",
	"ParentProcessName":   "process.parent.name",
	"ProcessName":         "process.executable",
	"WorkstationName":     "source.domain",
}

func ecsDefaultField(field string) string {
	return fmt.Sprintf("winlog.event_data.%s", field)
}
