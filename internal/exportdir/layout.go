package exportdir

import "path/filepath"

const (
	UsersLog            = "users.log"
	InstanceProfilesLog = "instance_profiles.log"
	ClustersLog         = "clusters.log"
	ClusterPoliciesLog  = "cluster_policies.log"
	JobsLog             = "jobs.log"

	GroupsDir = "groups"

	BackupSuffix = ".bak"
)

// AccountLogs lists the top level logs which may reference the AWS account id,
// in the order they are rewritten.
var AccountLogs = []string{
	UsersLog,
	InstanceProfilesLog,
	ClustersLog,
	ClusterPoliciesLog,
	JobsLog,
}

func backupName(path string) string {
	return path + BackupSuffix
}

func groupsPath(dir string) string {
	return filepath.Join(dir, GroupsDir)
}
